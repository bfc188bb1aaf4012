package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validationView mirrors the private Config fields so struct tags can
// describe the rules.
type validationView struct {
	SourceURL         string `validate:"required,url,httpscheme"`
	ProbeTimeout      int64  `validate:"gt=0"`
	FetchTimeout      int64  `validate:"gt=0"`
	UserAgent         string `validate:"required"`
	WorkDir           string `validate:"required"`
	LastModifiedFile  string `validate:"required,basename,nefield=CacheFile,nefield=ReportFile"`
	CacheFile         string `validate:"required,basename,nefield=ReportFile"`
	ReportFile        string `validate:"required,basename"`
	ReportTitle       string `validate:"required"`
	CommitMessage     string `validate:"required_if=Commit true"`
	Commit            bool
	CommitAuthorEmail string `validate:"omitempty,email"`
	LogLevel          string `validate:"loglevel"`
	LogFormat         string `validate:"logformat"`
}

func newValidator() *validator.Validate {
	validate := validator.New()

	_ = validate.RegisterValidation("httpscheme", func(fl validator.FieldLevel) bool {
		raw := strings.ToLower(fl.Field().String())
		return strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://")
	})

	// file names are joined onto the working directory
	_ = validate.RegisterValidation("basename", func(fl validator.FieldLevel) bool {
		name := fl.Field().String()
		return name != "." && name != ".." && !strings.ContainsAny(name, `/\`)
	})

	_ = validate.RegisterValidation("loglevel", func(fl validator.FieldLevel) bool {
		switch strings.ToLower(fl.Field().String()) {
		case "", "debug", "info", "warn", "error":
			return true
		default:
			return false
		}
	})

	_ = validate.RegisterValidation("logformat", func(fl validator.FieldLevel) bool {
		switch strings.ToLower(fl.Field().String()) {
		case "", "console", "text", "json":
			return true
		default:
			return false
		}
	})

	return validate
}

func validate(c *Config) error {
	view := validationView{
		SourceURL:         c.sourceURL.String(),
		ProbeTimeout:      int64(c.probeTimeout),
		FetchTimeout:      int64(c.fetchTimeout),
		UserAgent:         c.userAgent,
		WorkDir:           c.workDir,
		LastModifiedFile:  c.lastModifiedFile,
		CacheFile:         c.cacheFile,
		ReportFile:        c.reportFile,
		ReportTitle:       c.reportTitle,
		CommitMessage:     c.commitMessage,
		Commit:            c.commit,
		CommitAuthorEmail: c.commitAuthorEmail,
		LogLevel:          c.logLevel,
		LogFormat:         c.logFormat,
	}

	err := newValidator().Struct(view)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if errors.As(err, &errs) {
		messages := make([]string, 0, len(errs))
		for _, e := range errs {
			messages = append(messages, fmt.Sprintf("field '%s' failed on the '%s' rule", e.Field(), e.Tag()))
		}
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(messages, "; "))
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, err.Error())
}
