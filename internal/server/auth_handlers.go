package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/quitq-dev/quitq/internal/cli/client"
	"github.com/quitq-dev/quitq/internal/guard"
	"github.com/quitq-dev/quitq/internal/models"
	"github.com/quitq-dev/quitq/internal/session"
	"github.com/quitq-dev/quitq/internal/validate"
)

// formView is what the login and register templates render. Identity and
// Nav stay empty; the shared header reads them.
type formView struct {
	Title    string
	Identity *models.Identity
	Nav      []guard.Route
	Form     any
	Errors   validate.Errors
	Error    string
	Notice   string
}

// errorMessage prefers the backend's own message over the wrapped chain
func errorMessage(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

func fieldErrors(err error) (validate.Errors, bool) {
	var verrs validate.Errors
	if errors.As(err, &verrs) {
		return verrs, true
	}
	return nil, false
}

func (s *Server) loginPage(c *gin.Context) {
	if st := s.session.State(); st.Authenticated() {
		c.Redirect(http.StatusSeeOther, guard.Landing(st.Role()))
		return
	}

	view := formView{Title: "Login", Form: validate.LoginForm{}}
	if c.Query("registered") != "" {
		view.Notice = "Registration successful. Please log in."
	}
	c.HTML(http.StatusOK, "login.html", view)
}

func (s *Server) login(c *gin.Context) {
	form := validate.LoginForm{
		Email:    strings.TrimSpace(c.PostForm("email")),
		Password: c.PostForm("password"),
	}
	view := formView{Title: "Login", Form: form}

	if err := s.validator.Struct(form); err != nil {
		view.Errors, _ = fieldErrors(err)
		c.HTML(http.StatusUnprocessableEntity, "login.html", view)
		return
	}

	ctx := c.Request.Context()
	resp, err := s.client.Login(ctx, form.Email, form.Password)
	if err != nil {
		s.logger.Warn().Err(err).Str("email", form.Email).Msg("Login failed")
		view.Error = errorMessage(err)
		status := http.StatusBadGateway
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode < 500 {
			status = http.StatusUnauthorized
		}
		c.HTML(status, "login.html", view)
		return
	}

	identity := resp.User.Identity()
	if err := s.session.Login(ctx, resp.Token, identity); err != nil {
		s.logger.Error().Err(err).Msg("Failed to start session")
		view.Error = "Login failed. Please try again."
		if errors.Is(err, session.ErrInvalidSession) {
			view.Error = "The server returned an unusable session."
		}
		c.HTML(http.StatusBadGateway, "login.html", view)
		return
	}

	s.logger.Info().Int64("user_id", identity.ID).Str("role", identity.Role.String()).Msg("User logged in")
	c.Redirect(http.StatusSeeOther, guard.Landing(identity.Role))
}

func (s *Server) logout(c *gin.Context) {
	ctx := c.Request.Context()

	if s.session.State().Authenticated() {
		// Revoking on the server is best effort; the local session always ends
		if err := s.client.Logout(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("Server logout failed")
		}
	}

	if err := s.session.Logout(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to clear persisted session")
	}

	c.Redirect(http.StatusSeeOther, guard.LoginPath)
}

func (s *Server) registerPage(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", formView{Title: "Register", Form: validate.RegistrationForm{Role: models.RoleUser.String()}})
}

func (s *Server) register(c *gin.Context) {
	form := validate.RegistrationForm{
		Name:            strings.TrimSpace(c.PostForm("name")),
		Email:           strings.TrimSpace(c.PostForm("email")),
		Password:        c.PostForm("password"),
		Role:            strings.ToUpper(strings.TrimSpace(c.PostForm("role"))),
		ContactNumber:   strings.TrimSpace(c.PostForm("contactNumber")),
		Gender:          strings.ToUpper(strings.TrimSpace(c.PostForm("gender"))),
		Address:         c.PostForm("address"),
		BusinessName:    c.PostForm("businessName"),
		TaxID:           c.PostForm("taxId"),
		BusinessAddress: c.PostForm("businessAddress"),
	}
	// Never echo the password back into the form
	view := formView{Title: "Register"}
	shown := form
	shown.Password = ""
	view.Form = shown

	if form.Role == models.RoleAdmin.String() {
		view.Error = "Admin registration is not allowed."
		c.HTML(http.StatusUnprocessableEntity, "register.html", view)
		return
	}

	if err := s.validator.Struct(form); err != nil {
		view.Errors, _ = fieldErrors(err)
		c.HTML(http.StatusUnprocessableEntity, "register.html", view)
		return
	}

	_, err := s.client.Register(c.Request.Context(), models.User{
		Name:            form.Name,
		Email:           form.Email,
		Password:        form.Password,
		Role:            models.Role(form.Role),
		ContactNumber:   form.ContactNumber,
		Gender:          form.Gender,
		Address:         form.Address,
		BusinessName:    form.BusinessName,
		TaxID:           form.TaxID,
		BusinessAddress: form.BusinessAddress,
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("email", form.Email).Msg("Registration failed")
		view.Error = errorMessage(err)
		c.HTML(http.StatusBadGateway, "register.html", view)
		return
	}

	c.Redirect(http.StatusSeeOther, guard.LoginPath+"?registered=1")
}

func (s *Server) aboutPage(c *gin.Context) {
	st := s.session.State()
	c.HTML(http.StatusOK, "about.html", gin.H{"Title": "About", "Identity": st.Identity, "Nav": navFor(st)})
}
