package domain

type AccessRequirement string

const (
	AccessAny        AccessRequirement = "any"
	AccessPrivate    AccessRequirement = "private"
	AccessPublicOnly AccessRequirement = "public-only"
)

type AccessDecision string

const (
	DecisionRender              AccessDecision = "render"
	DecisionRedirectToLogin     AccessDecision = "redirect-to-login"
	DecisionRedirectToDashboard AccessDecision = "redirect-to-dashboard"
	DecisionShowLoading         AccessDecision = "show-loading"
)

// Authorize decides whether a view with the given requirement may render
// under the current session status. While the session is still resolving
// the answer is always show-loading so an unauthorized view never flashes.
func Authorize(requirement AccessRequirement, status SessionStatus) AccessDecision {
	if status == StatusUnknown || status == StatusAuthenticating {
		return DecisionShowLoading
	}

	switch requirement {
	case AccessPrivate:
		if status != StatusAuthenticated {
			return DecisionRedirectToLogin
		}
	case AccessPublicOnly:
		if status == StatusAuthenticated {
			return DecisionRedirectToDashboard
		}
	}
	return DecisionRender
}
