package pages

import (
	"context"
	"net/url"
	"strings"

	"github.com/vegana/shop/internal/browser"
)

var (
	loginTab     = browser.Loc("login tab", "a[href='#signin']", "a[data-target='#signin']")
	registerTab  = browser.Loc("register tab", "a[href='#signup']", "a[data-target='#signup']")
	loginPane    = browser.Loc("login pane", "#signin", "form.signin-form")
	registerPane = browser.Loc("register pane", "#signup", "form.signup-form")

	loginID = browser.Loc("login customer id",
		"#signin input[name='customerId']",
		"input#customerId",
		"input[name='customerId']",
		"input[placeholder*='ID']",
	)
	loginPassword = browser.Loc("login password",
		"#signin input[name='password']",
		"input#password",
		"input[type='password']",
	)
	loginSubmit = browser.Loc("login submit",
		"#signin button[type='submit']",
		"#signin input[type='submit']",
		"button[type='submit']",
	)
	loginError = browser.Loc("login error",
		"#signin .alert-danger",
		"#signin .alert.alert-danger",
		".login-error",
	)

	registerID       = browser.Loc("register customer id", "#signup input[name='customerId']", "input#signupCustomerId")
	registerFullName = browser.Loc("register full name", "#signup input[name='fullname']", "input[name='fullname']", "input#fullname")
	registerEmail    = browser.Loc("register email", "#signup input[name='email']", "input[type='email']")
	registerPassword = browser.Loc("register password", "#signup input[name='password']", "input#signupPassword")
	registerAgree    = browser.Loc("register terms", "#signup #signup-check", "#signup-check")
	registerSubmit   = browser.Loc("register submit", "#signup button[type='submit']", "#signup input[type='submit']")
	registerError    = browser.Loc("register error", "#signup .alert-danger", ".register-error")
	registerSuccess  = browser.Loc("register success", "#signup .alert-success", ".register-success")

	anyAlert = browser.Loc("message",
		"#signin .alert-danger",
		"#signup .alert-danger",
		"#signup .alert-success",
		".alert-danger",
		".alert-success",
		".alert-warning",
		".alert",
		".error-message",
		".message",
	)
)

// Registration is the sign-up form content.
type Registration struct {
	CustomerID string
	FullName   string
	Email      string
	Password   string
	// AcceptTerms ticks the terms checkbox before submitting.
	AcceptTerms bool
}

// LoginPage is the combined sign-in / sign-up screen.
type LoginPage struct {
	page
}

func NewLoginPage(d browser.Driver, opts Options) *LoginPage {
	return &LoginPage{page: newPage("login", d, opts)}
}

// Open navigates to /login.
func (p *LoginPage) Open(ctx context.Context) error {
	return p.open(ctx, "/login", loginPane, browser.Loc("login container", ".login-content", ".container"))
}

func (p *LoginPage) SwitchToLoginTab(ctx context.Context) bool {
	if !p.click(ctx, loginTab) {
		return false
	}
	return p.settle(ctx, p.visibleCond(loginPane))
}

func (p *LoginPage) SwitchToRegisterTab(ctx context.Context) bool {
	if !p.click(ctx, registerTab) {
		return false
	}
	return p.settle(ctx, p.visibleCond(registerPane))
}

func (p *LoginPage) IsOnLoginTab(ctx context.Context) bool {
	return p.visible(ctx, loginPane)
}

func (p *LoginPage) IsOnRegisterTab(ctx context.Context) bool {
	return p.visible(ctx, registerPane)
}

// Login fills the sign-in form and submits it. It returns once the browser
// left /login or an error alert showed up.
func (p *LoginPage) Login(ctx context.Context, customerID, password string) bool {
	if !p.IsOnLoginTab(ctx) {
		p.SwitchToLoginTab(ctx)
	}
	if !p.fill(ctx, loginID, customerID) || !p.fill(ctx, loginPassword, password) {
		return false
	}
	if !p.click(ctx, loginSubmit) {
		return false
	}
	p.settle(ctx, anyOf(p.urlLeaves("/login"), p.visibleCond(loginError)))
	return true
}

// Register fills the sign-up form and submits it.
func (p *LoginPage) Register(ctx context.Context, r Registration) bool {
	if !p.IsOnRegisterTab(ctx) && !p.SwitchToRegisterTab(ctx) {
		return false
	}
	for _, f := range []struct {
		loc   browser.Locator
		value string
	}{
		{registerID, r.CustomerID},
		{registerFullName, r.FullName},
		{registerEmail, r.Email},
		{registerPassword, r.Password},
	} {
		if !p.fill(ctx, f.loc, f.value) {
			return false
		}
	}
	if r.AcceptTerms && !p.checked(ctx, registerAgree) {
		p.click(ctx, registerAgree)
	}
	if !p.click(ctx, registerSubmit) {
		return false
	}
	p.settle(ctx, anyOf(
		p.visibleCond(registerSuccess),
		p.visibleCond(registerError),
		p.urlLeaves("/login"),
	))
	return true
}

func (p *LoginPage) checked(ctx context.Context, l browser.Locator) bool {
	el, ok := l.Find(ctx, p.d)
	if !ok {
		return false
	}
	c, err := el.Checked(ctx)
	return err == nil && c
}

func (p *LoginPage) LoginError(ctx context.Context) string {
	return p.text(ctx, loginError)
}

func (p *LoginPage) IsLoginErrorDisplayed(ctx context.Context) bool {
	return p.visible(ctx, loginError)
}

func (p *LoginPage) RegisterError(ctx context.Context) string {
	return p.text(ctx, registerError)
}

func (p *LoginPage) IsRegisterErrorDisplayed(ctx context.Context) bool {
	return p.visible(ctx, registerError)
}

func (p *LoginPage) RegisterSuccess(ctx context.Context) string {
	return p.text(ctx, registerSuccess)
}

func (p *LoginPage) IsRegisterSuccessDisplayed(ctx context.Context) bool {
	return p.visible(ctx, registerSuccess)
}

// Message returns the first non-empty alert on the screen.
func (p *LoginPage) Message(ctx context.Context) string {
	return p.text(ctx, anyAlert)
}

// IsLoginPage reports whether the browser is on /login with the form shown.
func (p *LoginPage) IsLoginPage(ctx context.Context) bool {
	return strings.Contains(p.URL(), "/login") && p.visible(ctx, loginID)
}

// IsLoginSuccessful reports whether the browser left /login.
func (p *LoginPage) IsLoginSuccessful() bool {
	return !strings.Contains(p.URL(), "/login")
}

// IsOnHomePage reports whether the browser sits on the storefront root.
func (p *LoginPage) IsOnHomePage() bool {
	u, err := url.Parse(p.URL())
	if err != nil || u.Host == "" {
		return false
	}
	return u.Path == "" || u.Path == "/" || u.Path == "/home"
}
