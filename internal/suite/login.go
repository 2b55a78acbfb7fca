package suite

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/vegana/shop/internal/pages"
	"github.com/vegana/shop/internal/scenario"
)

// loginRun holds the page of one login scenario.
type loginRun struct {
	cfg   Config
	login *pages.LoginPage
}

func loginScenarios(cfg Config) []scenario.Scenario {
	run := func() *loginRun { return &loginRun{cfg: cfg} }
	return []scenario.Scenario{
		run().validCredentials(),
		run().emptyCredentials(),
		run().invalidCredentials(),
	}
}

func (r *loginRun) open(ctx context.Context, st *scenario.T) error {
	r.login = pages.NewLoginPage(st.Driver, r.cfg.opts())
	return r.login.Open(ctx)
}

func (r *loginRun) validCredentials() scenario.Scenario {
	cfg := r.cfg
	return scenario.Scenario{
		Name:     "login-valid-credentials",
		Navigate: r.open,
		Act: []scenario.Step{
			step("submit valid credentials", func(ctx context.Context, st *scenario.T) error {
				return st.Require(r.login.Login(ctx, cfg.Username, cfg.Password), "login form could not be submitted")
			}),
		},
		Verify: []scenario.Step{
			step("left the login screen", func(ctx context.Context, st *scenario.T) error {
				return st.Require(!strings.Contains(r.login.URL(), "/login"), "still on %s: %s", r.login.URL(), r.login.Message(ctx))
			}),
			step("landed on home", func(ctx context.Context, st *scenario.T) error {
				st.Check(r.login.IsOnHomePage(), "expected home page, got %s", r.login.URL())
				return nil
			}),
		},
		Cleanup: func(ctx context.Context, st *scenario.T) error { return signOut(ctx, st, cfg) },
	}
}

func (r *loginRun) emptyCredentials() scenario.Scenario {
	return scenario.Scenario{
		Name:     "login-empty-credentials",
		Navigate: r.open,
		Act: []scenario.Step{
			step("submit empty form", func(ctx context.Context, st *scenario.T) error {
				r.login.Login(ctx, "", "")
				return nil
			}),
		},
		Verify: []scenario.Step{
			step("still on login screen", func(ctx context.Context, st *scenario.T) error {
				return st.Require(r.login.IsLoginPage(ctx), "empty credentials left the login screen: %s", r.login.URL())
			}),
			step("error shown", func(ctx context.Context, st *scenario.T) error {
				st.Check(r.login.IsLoginErrorDisplayed(ctx), "no login error shown")
				return nil
			}),
		},
	}
}

func (r *loginRun) invalidCredentials() scenario.Scenario {
	cfg := r.cfg
	return scenario.Scenario{
		Name:     "login-invalid-credentials",
		Navigate: r.open,
		Act: []scenario.Step{
			step("submit wrong password", func(ctx context.Context, st *scenario.T) error {
				return st.Require(r.login.Login(ctx, cfg.Username, "wrong-"+cfg.Password), "login form could not be submitted")
			}),
		},
		Verify: []scenario.Step{
			step("still on login screen", func(ctx context.Context, st *scenario.T) error {
				return st.Require(strings.Contains(r.login.URL(), "/login"), "wrong password was accepted: %s", r.login.URL())
			}),
			step("error shown", func(ctx context.Context, st *scenario.T) error {
				msg := r.login.LoginError(ctx)
				st.Check(msg != pages.NotFound, "no login error shown")
				st.Check(strings.Contains(strings.ToLower(msg), "invalid"), "unexpected login error %q", msg)
				return nil
			}),
		},
	}
}

// newCustomer returns registration data no earlier run has used.
func newCustomer() pages.Registration {
	id := "vegan-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
	return pages.Registration{
		CustomerID:  id,
		FullName:    "Sam Sprout",
		Email:       id + "@example.com",
		Password:    "s3cret-sprout",
		AcceptTerms: true,
	}
}

// registerRun holds the page and the fresh customer of one sign-up scenario.
type registerRun struct {
	cfg   Config
	login *pages.LoginPage
	reg   pages.Registration
}

func registerScenarios(cfg Config) []scenario.Scenario {
	run := func() *registerRun { return &registerRun{cfg: cfg} }
	return []scenario.Scenario{
		run().switchTab(),
		run().freshAccount(),
		run().emptyFields(),
		run().duplicateID(),
		run().thenLogin(),
	}
}

func (r *registerRun) open(ctx context.Context, st *scenario.T) error {
	r.login = pages.NewLoginPage(st.Driver, r.cfg.opts())
	r.reg = newCustomer()
	return r.login.Open(ctx)
}

func (r *registerRun) submit(ctx context.Context, st *scenario.T) error {
	return st.Require(r.login.Register(ctx, r.reg), "registration form could not be submitted")
}

func (r *registerRun) switchTab() scenario.Scenario {
	return scenario.Scenario{
		Name:     "register-switch-tab",
		Navigate: r.open,
		Act: []scenario.Step{
			step("switch to register", func(ctx context.Context, st *scenario.T) error {
				return st.Require(r.login.SwitchToRegisterTab(ctx), "register tab did not open")
			}),
		},
		Verify: []scenario.Step{
			step("register tab active", func(ctx context.Context, st *scenario.T) error {
				if err := st.Require(r.login.IsOnRegisterTab(ctx), "register form hidden"); err != nil {
					return err
				}
				st.Check(!r.login.IsOnLoginTab(ctx), "login form still visible")
				return nil
			}),
			step("switch back", func(ctx context.Context, st *scenario.T) error {
				return st.Require(r.login.SwitchToLoginTab(ctx) && r.login.IsOnLoginTab(ctx), "login tab did not reopen")
			}),
		},
	}
}

func (r *registerRun) freshAccount() scenario.Scenario {
	return scenario.Scenario{
		Name:     "register-new-customer",
		Navigate: r.open,
		Act:      []scenario.Step{step("submit registration", r.submit)},
		Verify: []scenario.Step{
			step("success shown", func(ctx context.Context, st *scenario.T) error {
				return st.Require(r.login.IsRegisterSuccessDisplayed(ctx), "registration of %s failed: %s", r.reg.CustomerID, r.login.Message(ctx))
			}),
			step("not signed in yet", func(ctx context.Context, st *scenario.T) error {
				st.Check(strings.Contains(r.login.URL(), "/login"), "registration navigated to %s", r.login.URL())
				return nil
			}),
		},
	}
}

func (r *registerRun) emptyFields() scenario.Scenario {
	return scenario.Scenario{
		Name:     "register-empty-fields",
		Navigate: r.open,
		Act: []scenario.Step{
			step("submit empty registration", func(ctx context.Context, st *scenario.T) error {
				return st.Require(r.login.Register(ctx, pages.Registration{}), "registration form could not be submitted")
			}),
		},
		Verify: []scenario.Step{
			step("error shown", func(ctx context.Context, st *scenario.T) error {
				if err := st.Require(!r.login.IsRegisterSuccessDisplayed(ctx), "empty registration succeeded"); err != nil {
					return err
				}
				st.Check(r.login.IsRegisterErrorDisplayed(ctx), "no registration error shown")
				return nil
			}),
		},
	}
}

func (r *registerRun) duplicateID() scenario.Scenario {
	cfg := r.cfg
	return scenario.Scenario{
		Name:     "register-duplicate-id",
		Navigate: r.open,
		Act: []scenario.Step{
			step("register existing id", func(ctx context.Context, st *scenario.T) error {
				dup := r.reg
				dup.CustomerID = cfg.Username
				return st.Require(r.login.Register(ctx, dup), "registration form could not be submitted")
			}),
		},
		Verify: []scenario.Step{
			step("duplicate rejected", func(ctx context.Context, st *scenario.T) error {
				if err := st.Require(r.login.IsRegisterErrorDisplayed(ctx), "duplicate id %s was accepted", cfg.Username); err != nil {
					return err
				}
				msg := r.login.RegisterError(ctx)
				st.Check(strings.Contains(strings.ToLower(msg), "exists"), "unexpected error %q", msg)
				return nil
			}),
		},
	}
}

func (r *registerRun) thenLogin() scenario.Scenario {
	return scenario.Scenario{
		Name:     "register-then-login",
		Navigate: r.open,
		Act: []scenario.Step{
			step("submit registration", r.submit),
			step("sign in as new customer", func(ctx context.Context, st *scenario.T) error {
				if err := st.Require(r.login.IsRegisterSuccessDisplayed(ctx), "registration failed: %s", r.login.Message(ctx)); err != nil {
					return err
				}
				r.login.SwitchToLoginTab(ctx)
				return st.Require(r.login.Login(ctx, r.reg.CustomerID, r.reg.Password), "login form could not be submitted")
			}),
		},
		Verify: []scenario.Step{
			step("signed in", func(ctx context.Context, st *scenario.T) error {
				return st.Require(r.login.IsLoginSuccessful(), "new customer %s could not sign in: %s", r.reg.CustomerID, r.login.Message(ctx))
			}),
		},
		Cleanup: func(ctx context.Context, st *scenario.T) error { return signOut(ctx, st, r.cfg) },
	}
}
