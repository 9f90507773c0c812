package validate

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"mvdan.cc/xurls/v2"
)

const (
	MinPasswordLen = 8
	MaxPasswordLen = 72
	MaxUsernameLen = 64
	MaxNameLen     = 128
	MaxTitleLen    = 300
	MaxAuthorLen   = 128
	MaxURLLen      = 2048
)

var httpURLs = mustMatchScheme(`https?://`)

func mustMatchScheme(exp string) *regexp.Regexp {
	re, err := xurls.StrictMatchingScheme(exp)
	if err != nil {
		panic(err)
	}
	return re
}

func LoginForm(username, password string) error {
	var errs = []error{}

	errs = append(errs, Username(username))

	if password == "" {
		errs = append(errs, errors.New("empty password"))
	}

	return errors.Join(errs...)
}

func SignUpForm(username, password, name string) error {
	var errs = []error{}

	errs = append(errs, Username(username))

	errs = append(errs, Password(password))

	errs = append(errs, Name(name))

	return errors.Join(errs...)
}

// StoryForm validates a story submission. The fields are expected to be already normalized.
func StoryForm(title, author, link string) error {
	var errs = []error{}

	errs = append(errs, text("title", title, MaxTitleLen))

	errs = append(errs, text("author", author, MaxAuthorLen))

	errs = append(errs, URL(link))

	return errors.Join(errs...)
}

func Password(password string) error {
	l := len(password)
	switch {
	case l == 0:
		return errors.New("empty password")
	case l < MinPasswordLen:
		return fmt.Errorf("password too short; min %d characters", MinPasswordLen)
	case l > MaxPasswordLen:
		return fmt.Errorf("password too long; max %d characters", MaxPasswordLen)
	}
	return nil
}

func Username(username string) error {
	if l := len(username); l == 0 {
		return errors.New("empty username")
	} else if l > MaxUsernameLen {
		return fmt.Errorf("username too long; max %d characters", MaxUsernameLen)
	}
	if strings.ContainsAny(username, " \t\n/?#") {
		return errors.New("username must not contain spaces, slashes, '?' or '#'")
	}
	return nil
}

func Name(name string) error {
	return text("name", name, MaxNameLen)
}

// URL accepts only absolute http and https URLs with a host.
func URL(link string) error {
	if link == "" {
		return errors.New("empty url")
	}
	if len(link) > MaxURLLen {
		return fmt.Errorf("url too long; max %d characters", MaxURLLen)
	}
	invalid := fmt.Errorf("%q is not a valid http or https url", link)
	// xurls leaves trailing punctuation out of its matches, so it only tells where the url starts.
	if loc := httpURLs.FindStringIndex(link); loc == nil || loc[0] != 0 {
		return invalid
	}
	if strings.IndexFunc(link, unicode.IsSpace) >= 0 {
		return invalid
	}
	u, err := url.ParseRequestURI(link)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return invalid
	}
	return nil
}

// Normalize trims user provided text and collapses runs of whitespace. Markup is kept as typed; templates
// escape it.
func Normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func text(field, value string, max int) error {
	if l := len(value); l == 0 {
		return fmt.Errorf("empty %s", field)
	} else if l > max {
		return fmt.Errorf("%s too long; max %d characters", field, max)
	}
	return nil
}
