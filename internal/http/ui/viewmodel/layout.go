package viewmodel

// User represents the session-derived user exposed to templates.
type User struct {
	ID          string
	DisplayName string
	Email       string
	Role        string
}

// NavItem is one entry in the main navigation header.
// Method is "post" for entries rendered as a form button (sign out).
type NavItem struct {
	Label  string
	Href   string
	Method string
	Active bool
}

// Link is a stylesheet or preload link emitted into the document head.
type Link struct {
	Rel  string
	Href string
}

// Layout captures shared chrome metadata (titles, navigation state, auth flags).
type Layout struct {
	AppName         string
	Title           string
	CurrentPage     string
	Theme           string
	IsAuthenticated bool
	AuthEnabled     bool
	User            *User
	Nav             []NavItem
	Links           []Link
	Scripts         []string
	// CurrentPath is echoed back by the theme toggle so the redirect lands on the same page.
	CurrentPath string
	CSRFToken   string
}

// Page is the data handed to the "layout" template: chrome plus the nested route's data.
type Page struct {
	Layout
	Data any
}

// ErrorPage is the data handed to the "error-layout" template.
type ErrorPage struct {
	AppName string
	Status  int
	Title   string
	Heading string
	Message string
	Links   []Link
	Scripts []string
}
