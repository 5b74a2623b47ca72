package main

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"net/smtp"
	"strings"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type ContactMessage struct {
	ID      string
	Name    string
	Email   string
	Message string
}

type Sender interface {
	Send(ctx context.Context, msg ContactMessage) error
}

// simulatedSender pretends to deliver after a fixed delay. Nothing leaves
// the process.
type simulatedSender struct {
	delay time.Duration
}

func (s simulatedSender) Send(ctx context.Context, _ ContactMessage) error {
	if s.delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

type smtpSender struct {
	cfg        SMTPConfig
	retryDelay time.Duration
	sendMail   func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func newSMTPSender(cfg SMTPConfig) (*smtpSender, error) {
	if cfg.User == "" || cfg.Pass == "" {
		return nil, errors.New("SMTP credentials not configured")
	}
	if cfg.To == "" {
		cfg.To = cfg.User
	}
	return &smtpSender{cfg: cfg, retryDelay: 500 * time.Millisecond, sendMail: smtp.SendMail}, nil
}

func (s *smtpSender) Send(ctx context.Context, msg ContactMessage) error {
	if strings.ContainsAny(msg.Email, "\r\n") {
		return errors.New("reply-to address spans lines")
	}
	// Q-encoding keeps control characters in the name out of the header block
	subject := mime.QEncoding.Encode("utf-8", "Portfolio Contact: "+msg.Name)
	body := fmt.Sprintf(`
New contact form submission from your portfolio:

Name: %s
Email: %s
Message:
%s

---
Submission %s
`, msg.Name, msg.Email, msg.Message, msg.ID)

	raw := []byte("To: " + s.cfg.To + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"From: " + s.cfg.User + "\r\n" +
		"Reply-To: " + msg.Email + "\r\n" +
		"\r\n" +
		body + "\r\n")

	auth := smtp.PlainAuth("", s.cfg.User, s.cfg.Pass, s.cfg.Host)
	err := retry.Do(
		func() error {
			return s.sendMail(s.cfg.Host+":"+s.cfg.Port, auth, s.cfg.User, []string{s.cfg.To}, raw)
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(s.retryDelay),
		retry.LastErrorOnly(true),
	)
	return errors.Wrap(err, "send contact mail")
}

func newSender(cfg *Config) (Sender, error) {
	switch cfg.ContactMode {
	case contactModeSimulated, "":
		return simulatedSender{delay: cfg.ContactDelay}, nil
	case contactModeSMTP:
		return newSMTPSender(cfg.SMTP)
	}
	return nil, errors.Errorf("unknown contact mode %q", cfg.ContactMode)
}

// trimmedString drops surrounding whitespace while the form is bound, so
// blank input fails "required".
type trimmedString string

func (t *trimmedString) UnmarshalParam(param string) error {
	*t = trimmedString(strings.TrimSpace(param))
	return nil
}

type contactForm struct {
	Name    trimmedString `form:"name" binding:"required,singleline"`
	Email   trimmedString `form:"email" binding:"required,email"`
	Message trimmedString `form:"message" binding:"required"`
}

const (
	msgMissingFields = "Please fill in your name, email and message."
	msgBadEmail      = "Please enter a valid email address."
	msgBadName       = "Please keep your name on a single line."
)

func singleLine(fl validator.FieldLevel) bool {
	return !strings.ContainsAny(fl.Field().String(), "\r\n")
}

// registerContactRules adds the custom tags used by contactForm to gin's
// validator.
var registerContactRules = sync.OnceValue(func() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin validator is not go-playground/validator")
	}
	return v.RegisterValidation("singleline", singleLine)
})

// formProblem maps validation failures to the message shown above the form.
// It returns false for errors that are not validation failures.
func formProblem(err error) (string, bool) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "", false
	}
	problem := ""
	for _, fe := range verrs {
		switch {
		case fe.Tag() == "required":
			return msgMissingFields, true
		case fe.Field() == "Name":
			problem = msgBadName
		case fe.Field() == "Email" && problem == "":
			problem = msgBadEmail
		}
	}
	if problem == "" {
		problem = msgMissingFields
	}
	return problem, true
}

type ContactHandler struct {
	sender          Sender
	confirmationTTL time.Duration
	metrics         *Metrics
	logger          *zap.Logger
}

func NewContactHandler(sender Sender, cfg *Config, metrics *Metrics, logger *zap.Logger) (*ContactHandler, error) {
	if err := registerContactRules(); err != nil {
		return nil, errors.Wrap(err, "register contact form rules")
	}
	return &ContactHandler{
		sender:          sender,
		confirmationTTL: cfg.ConfirmationTTL,
		metrics:         metrics,
		logger:          logger,
	}, nil
}

func (h *ContactHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/contact-form", h.Form)
	r.POST("/contact", h.Submit)
}

func (h *ContactHandler) Form(c *gin.Context) {
	c.HTML(http.StatusOK, "contact-form.html", gin.H{"form": contactForm{}})
}

func (h *ContactHandler) Submit(c *gin.Context) {
	var form contactForm
	if err := c.ShouldBind(&form); err != nil {
		problem, ok := formProblem(err)
		if !ok {
			c.HTML(http.StatusBadRequest, "contact-form.html", gin.H{
				"form":  form,
				"error": msgMissingFields,
			})
			return
		}
		h.metrics.ContactSubmitted("invalid")
		c.HTML(http.StatusOK, "contact-form.html", gin.H{
			"form":  form,
			"error": problem,
		})
		return
	}

	msg := ContactMessage{
		ID:      uuid.NewString(),
		Name:    string(form.Name),
		Email:   string(form.Email),
		Message: string(form.Message),
	}
	if err := h.sender.Send(c.Request.Context(), msg); err != nil {
		h.metrics.ContactSubmitted("failed")
		h.logger.Error("contact submission failed", zap.String("id", msg.ID), zap.Error(err))
		c.HTML(http.StatusOK, "contact-form.html", gin.H{
			"error": "Sorry, there was an error sending your message. Please try again later.",
			"form":  form,
		})
		return
	}

	h.metrics.ContactSubmitted("sent")
	h.logger.Info("contact submission", zap.String("id", msg.ID))
	c.HTML(http.StatusOK, "contact-success.html", gin.H{
		"title":        "Message Sent!",
		"success":      "Thank you for reaching out. I will get back to you soon.",
		"resetAfterMs": h.confirmationTTL.Milliseconds(),
	})
}
