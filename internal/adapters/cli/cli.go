package cli

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/healytics/healytics-client/internal/bootstrap"
	"github.com/healytics/healytics-client/internal/core/domain"
)

// CLI exposes the client workflows as subcommands. Every command restores
// the persisted session first, then checks the access gate the way a view
// would before rendering.
type CLI struct {
	app *bootstrap.App
	out io.Writer
	in  io.Reader
}

func New(app *bootstrap.App) *CLI {
	return &CLI{app: app, out: os.Stdout, in: os.Stdin}
}

func (c *CLI) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		c.usage()
		return fmt.Errorf("missing command")
	}
	command, rest := args[0], args[1:]

	if err := c.app.Sessions.Restore(ctx); err != nil {
		return fmt.Errorf("restore session: %w", err)
	}

	switch command {
	case "login":
		return c.login(ctx, rest)
	case "register":
		return c.register(ctx, rest)
	case "logout":
		c.app.Sessions.Logout()
		fmt.Fprintln(c.out, "signed out")
		return nil
	case "whoami":
		return c.whoami()
	case "stats":
		return c.private(ctx, c.stats)
	case "history":
		return c.private(ctx, c.history)
	case "predict":
		return c.private(ctx, func(ctx context.Context) error { return c.predict(ctx, rest) })
	case "chat":
		return c.private(ctx, c.chat)
	case "blogs":
		return c.blogs(ctx)
	case "blog":
		return c.blog(ctx, rest)
	case "blog-create":
		return c.private(ctx, func(ctx context.Context) error { return c.blogCreate(ctx, rest) })
	case "bookmarks":
		return c.private(ctx, c.bookmarks)
	case "bookmark":
		return c.private(ctx, func(ctx context.Context) error { return c.bookmark(ctx, rest, true) })
	case "unbookmark":
		return c.private(ctx, func(ctx context.Context) error { return c.bookmark(ctx, rest, false) })
	case "contact":
		return c.contact(ctx, rest)
	case "health":
		return c.health(ctx)
	default:
		c.usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func (c *CLI) usage() {
	fmt.Fprintln(c.out, `usage: healytics <command> [flags]

commands:
  login        sign in and persist the session
  register     create an account
  logout       sign out and clear the stored session
  whoami       show the signed-in account
  stats        show the dashboard summary
  predict      submit an image for analysis
  history      list past analyses
  chat         talk to the assistant
  blogs        list articles
  blog         show one article
  blog-create  publish an article
  bookmarks    list bookmarked articles
  bookmark     bookmark an article
  unbookmark   remove a bookmark
  contact      send a message to the team
  health       probe the backend`)
}

// private runs fn only when the access gate would render a signed-in
// view; otherwise it reports the redirect a browser client would take.
func (c *CLI) private(ctx context.Context, fn func(context.Context) error) error {
	switch decision := c.app.Gate.Evaluate(domain.AccessPrivate); decision {
	case domain.DecisionRender:
		return fn(ctx)
	case domain.DecisionRedirectToLogin:
		return fmt.Errorf("not signed in, run: healytics login")
	default:
		return fmt.Errorf("session not ready (%s)", decision)
	}
}

func (c *CLI) login(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("login", flag.ContinueOnError)
	username := flags.String("username", "", "account username")
	password := flags.String("password", "", "account password")
	if err := flags.Parse(args); err != nil {
		return err
	}

	err := c.app.Sessions.Login(ctx, domain.LoginRequest{Username: *username, Password: *password})
	if err != nil {
		return fmt.Errorf("%s", domain.ErrorInfoFrom(err).Message)
	}
	session := c.app.Sessions.Snapshot()
	fmt.Fprintf(c.out, "signed in as %s\n", session.Identity.DisplayName())
	return nil
}

func (c *CLI) register(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("register", flag.ContinueOnError)
	username := flags.String("username", "", "account username")
	email := flags.String("email", "", "account email")
	password := flags.String("password", "", "account password")
	firstName := flags.String("first-name", "", "first name")
	lastName := flags.String("last-name", "", "last name")
	if err := flags.Parse(args); err != nil {
		return err
	}

	err := c.app.Sessions.Register(ctx, domain.RegisterRequest{
		Username:  *username,
		Email:     *email,
		Password:  *password,
		FirstName: *firstName,
		LastName:  *lastName,
	})
	if err != nil {
		return fmt.Errorf("%s", domain.ErrorInfoFrom(err).Message)
	}
	fmt.Fprintf(c.out, "account created, signed in as %s\n", c.app.Sessions.Snapshot().Identity.DisplayName())
	return nil
}

func (c *CLI) whoami() error {
	session := c.app.Sessions.Snapshot()
	if !session.Authenticated() {
		fmt.Fprintln(c.out, "not signed in")
		return nil
	}
	fmt.Fprintf(c.out, "%s", session.Identity.Username)
	if session.Identity.Email != "" {
		fmt.Fprintf(c.out, " <%s>", session.Identity.Email)
	}
	fmt.Fprintln(c.out)
	return nil
}

func (c *CLI) stats(ctx context.Context) error {
	stats, err := c.app.Dashboard.Stats(ctx)
	if err != nil {
		return fmt.Errorf("%s", domain.ErrorInfoFrom(err).Message)
	}
	fmt.Fprintf(c.out, "analyses: %d\nbookmarks: %d\nrecent analyses: %d\n",
		stats.TotalPredictions, stats.TotalBookmarks, stats.RecentPredictions)
	return nil
}

func (c *CLI) predict(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: healytics predict <image-file>")
	}
	path := args[0]

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read image: %w", err)
	}
	upload := domain.ImageUpload{
		Filename:    filepath.Base(path),
		ContentType: mime.TypeByExtension(filepath.Ext(path)),
		Size:        int64(len(content)),
		Content:     content,
	}

	if err := c.app.Upload.Select(upload); err != nil {
		return fmt.Errorf("%s", domain.ErrorInfoFrom(err).Message)
	}
	if err := c.app.Upload.Submit(ctx); err != nil {
		return fmt.Errorf("%s", domain.ErrorInfoFrom(err).Message)
	}
	c.app.Dashboard.Invalidate()

	result := c.app.Upload.Snapshot().Result
	fmt.Fprintf(c.out, "condition: %s (%s)\n", result.PredictedCancerType, result.Severity())
	fmt.Fprintf(c.out, "confidence: %.1f%% (%s)\n", result.ConfidenceScore, result.Tier())
	if result.Symptoms != "" {
		fmt.Fprintf(c.out, "symptoms: %s\n", result.Symptoms)
	}
	if result.Recommendations != "" {
		fmt.Fprintf(c.out, "recommendations: %s\n", result.Recommendations)
	}
	for _, medicine := range result.DisplayMedicines() {
		fmt.Fprintf(c.out, "medicine: %s", medicine.Name)
		if medicine.Description != "" {
			fmt.Fprintf(c.out, " - %s", medicine.Description)
		}
		fmt.Fprintln(c.out)
	}
	return nil
}

func (c *CLI) history(ctx context.Context) error {
	c.app.History.Refresh(ctx)
	snapshot := c.app.History.Snapshot()
	if snapshot.Err != nil {
		return fmt.Errorf("%s", snapshot.Err.Message)
	}
	if len(snapshot.Items) == 0 {
		fmt.Fprintln(c.out, "no analyses yet")
		return nil
	}
	for _, record := range snapshot.Items {
		fmt.Fprintf(c.out, "#%d %s %.1f%% %s\n",
			record.ID, record.PredictedCancerType, record.ConfidenceScore,
			record.CreatedAt.Format("2006-01-02"))
	}
	return nil
}

func (c *CLI) chat(ctx context.Context) error {
	fmt.Fprintln(c.out, "chat with the assistant, empty line to quit")
	scanner := bufio.NewScanner(c.in)
	for {
		fmt.Fprint(c.out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			return nil
		}

		// A failed turn already appended the readable fallback; show
		// the transcript tail either way.
		_ = c.app.Chat.Send(ctx, line)
		transcript := c.app.Chat.Transcript()
		fmt.Fprintln(c.out, transcript[len(transcript)-1].Text)
	}
}

func (c *CLI) blogs(ctx context.Context) error {
	c.app.BlogList.Refresh(ctx)
	snapshot := c.app.BlogList.Snapshot()
	if snapshot.Err != nil {
		return fmt.Errorf("%s", snapshot.Err.Message)
	}
	if len(snapshot.Items) == 0 {
		fmt.Fprintln(c.out, "no articles")
		return nil
	}
	for _, blog := range snapshot.Items {
		fmt.Fprintf(c.out, "#%d %s by %s\n", blog.ID, blog.Title, blog.Author.Username)
	}
	return nil
}

func (c *CLI) blog(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: healytics blog <id>")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("article id must be a number")
	}

	blog, err := c.app.Blogs.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("%s", domain.ErrorInfoFrom(err).Message)
	}
	fmt.Fprintf(c.out, "%s\nby %s, %s\n\n%s\n",
		blog.Title, blog.Author.Username, blog.CreatedAt.Format("2006-01-02"), blog.Content)
	return nil
}

func (c *CLI) blogCreate(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("blog-create", flag.ContinueOnError)
	title := flags.String("title", "", "article title")
	content := flags.String("content", "", "article body")
	tags := flags.String("tags", "", "comma-separated tags")
	imagePath := flags.String("image", "", "optional cover image file")
	if err := flags.Parse(args); err != nil {
		return err
	}

	draft := domain.BlogDraft{Title: *title, Content: *content, Tags: *tags}
	if *imagePath != "" {
		content, err := os.ReadFile(*imagePath)
		if err != nil {
			return fmt.Errorf("read cover image: %w", err)
		}
		draft.Image = &domain.ImageUpload{
			Filename:    filepath.Base(*imagePath),
			ContentType: mime.TypeByExtension(filepath.Ext(*imagePath)),
			Size:        int64(len(content)),
			Content:     content,
		}
	}

	blog, err := c.app.Blogs.Publish(ctx, draft)
	if err != nil {
		return fmt.Errorf("%s", domain.ErrorInfoFrom(err).Message)
	}
	fmt.Fprintf(c.out, "published #%d %s\n", blog.ID, blog.Title)
	return nil
}

func (c *CLI) bookmarks(ctx context.Context) error {
	c.app.Bookmarks.Refresh(ctx)
	snapshot := c.app.Bookmarks.Snapshot()
	if snapshot.Err != nil {
		return fmt.Errorf("%s", snapshot.Err.Message)
	}
	if len(snapshot.Items) == 0 {
		fmt.Fprintln(c.out, "no bookmarks")
		return nil
	}
	for _, bookmark := range snapshot.Items {
		fmt.Fprintf(c.out, "#%d %s\n", bookmark.Blog.ID, bookmark.Blog.Title)
	}
	return nil
}

func (c *CLI) bookmark(ctx context.Context, args []string, add bool) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: healytics bookmark <id>")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("article id must be a number")
	}

	var message string
	if add {
		message, err = c.app.Blogs.Bookmark(ctx, id)
	} else {
		message, err = c.app.Blogs.RemoveBookmark(ctx, id)
	}
	if err != nil {
		return fmt.Errorf("%s", domain.ErrorInfoFrom(err).Message)
	}
	c.app.Dashboard.Invalidate()
	fmt.Fprintln(c.out, message)
	return nil
}

func (c *CLI) contact(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("contact", flag.ContinueOnError)
	name := flags.String("name", "", "your name")
	email := flags.String("email", "", "your email")
	subject := flags.String("subject", "", "optional subject")
	message := flags.String("message", "", "your message")
	if err := flags.Parse(args); err != nil {
		return err
	}

	confirmation, err := c.app.Contact.Send(ctx, domain.ContactMessage{
		Name:    *name,
		Email:   *email,
		Subject: *subject,
		Message: *message,
	})
	if err != nil {
		return fmt.Errorf("%s", domain.ErrorInfoFrom(err).Message)
	}
	fmt.Fprintln(c.out, confirmation)
	return nil
}

func (c *CLI) health(ctx context.Context) error {
	status, err := c.app.Health.Check(ctx)
	if err != nil {
		return fmt.Errorf("%s", domain.ErrorInfoFrom(err).Message)
	}
	fmt.Fprintln(c.out, status)
	return nil
}
