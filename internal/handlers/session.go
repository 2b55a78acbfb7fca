package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/vegana/shop/internal/models"
	"github.com/vegana/shop/internal/services"
	"github.com/vegana/shop/internal/session"
	"github.com/vegana/shop/internal/web"
)

// RegisterSuccessMessage is shown on the sign-up tab after registration.
const RegisterSuccessMessage = "Registration successful. You can now sign in."

// LoginHandler serves the combined sign-in / sign-up screen and handles both
// forms. The hidden "action" field tells them apart.
type LoginHandler struct {
	page
	carts services.CartService
}

// LoginData is the login template content.
type LoginData struct {
	// Register opens the sign-up tab instead of sign-in.
	Register        bool
	Next            string
	LoginID         string
	LoginError      string
	RegisterError   string
	RegisterSuccess string
	Form            services.Registration
}

// NewLoginHandler creates a new login handler
func NewLoginHandler(auth services.AuthService, carts services.CartService, log logrus.FieldLogger) (*LoginHandler, error) {
	p, err := newPage("login.html", auth, log)
	if err != nil {
		return nil, err
	}
	return &LoginHandler{page: p, carts: carts}, nil
}

// ServeHTTP handles GET and POST /login
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		q := r.URL.Query()
		h.render(w, r, http.StatusOK, "Login", LoginData{
			Register: q.Get("tab") == "signup",
			Next:     q.Get("next"),
		})
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form", http.StatusBadRequest)
			return
		}
		if r.PostFormValue("action") == "register" {
			h.register(w, r)
			return
		}
		h.login(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *LoginHandler) login(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PostFormValue("customerId"))
	next := r.PostFormValue("next")
	log := h.log.WithField("customer", id)

	c, err := h.auth.Authenticate(r.Context(), id, r.PostFormValue("password"))
	if err != nil {
		status, msg := http.StatusUnauthorized, web.Sentence(err.Error())
		switch {
		case errors.Is(err, services.ErrMissingCredentials):
			status = http.StatusBadRequest
		case errors.Is(err, services.ErrInvalidCredentials):
		default:
			log.WithError(err).Error("Error authenticating customer")
			status, msg = http.StatusInternalServerError, "Login failed, please try again later."
		}
		log.Info("Login rejected")
		h.render(w, r, status, "Login", LoginData{Next: next, LoginID: id, LoginError: msg})
		return
	}

	previous, _ := session.SignIn(r.Context(), c.ID)
	if err := h.carts.Transfer(r.Context(), previous, session.ID(r.Context())); err != nil {
		log.WithError(err).Warn("Cart left behind on sign in")
	}
	log.Info("Customer signed in")
	http.Redirect(w, r, localPath(next), http.StatusSeeOther)
}

func (h *LoginHandler) register(w http.ResponseWriter, r *http.Request) {
	form := services.Registration{
		CustomerID:  r.PostFormValue("customerId"),
		FullName:    r.PostFormValue("fullname"),
		Email:       r.PostFormValue("email"),
		Password:    r.PostFormValue("password"),
		AcceptTerms: r.PostFormValue("terms") != "",
	}
	log := h.log.WithField("customer", form.CustomerID)

	c, err := h.auth.Register(r.Context(), form)
	if err != nil {
		status, msg := http.StatusBadRequest, web.Sentence(err.Error())
		switch {
		case errors.Is(err, services.ErrCustomerExists):
			status = http.StatusConflict
		case isValidationError(err):
		default:
			log.WithError(err).Error("Error registering customer")
			status, msg = http.StatusInternalServerError, "Registration failed, please try again later."
		}
		form.Password = ""
		log.WithField("reason", msg).Info("Registration rejected")
		h.render(w, r, status, "Login", LoginData{Register: true, RegisterError: msg, Form: form})
		return
	}

	log.WithField("customer", c.ID).Info("Customer registered")
	h.render(w, r, http.StatusOK, "Login", LoginData{Register: true, RegisterSuccess: RegisterSuccessMessage})
}

func isValidationError(err error) bool {
	for _, target := range []error{
		models.ErrCustomerIDRequired,
		models.ErrInvalidCustomerID,
		models.ErrFullNameRequired,
		models.ErrInvalidEmail,
		models.ErrWeakPassword,
		services.ErrTermsNotAccepted,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// LogoutHandler signs the customer out. The cart stays with the session.
type LogoutHandler struct {
	log logrus.FieldLogger
}

// NewLogoutHandler creates a new logout handler
func NewLogoutHandler(log logrus.FieldLogger) *LogoutHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &LogoutHandler{log: log}
}

// ServeHTTP handles GET and POST /logout
func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if id := session.CustomerID(r.Context()); id != "" {
		session.SignOut(r.Context())
		h.log.WithField("customer", id).Info("Customer signed out")
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// sendErrorResponse sends a JSON error response
func sendErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	})
}
