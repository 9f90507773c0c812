package config

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/crypto/hkdf"
)

const (
	DefaultAPIURL   = "https://hack-or-snooze-v3.herokuapp.com"
	DefaultAddr     = ":8080"
	SessionKeySize  = 32
	minSecretLength = 16
)

type Configuration struct {
	// Addr is the address the web server listens on.
	Addr string
	// APIURL is the base URL of the stories backend, such as https://hack-or-snooze-v3.herokuapp.com.
	APIURL *url.URL
	// StaticDir is the directory on which the stylesheet, favicon and other static files can be found.
	StaticDir string
	// Name of the site, displayed in the navigation bar and page titles.
	Name string
	// SessionSecret is the secret from which the session cookie encryption key is derived. It may have any
	// length above 16 bytes.
	SessionSecret   string
	SessionLifetime time.Duration
	// SecureCookies sets the Secure flag on the session cookie; it should be true whenever the site is
	// served over HTTPS.
	SecureCookies bool
	// SameSite is the SameSite attribute of the session cookie, either Lax or Strict.
	SameSite string
	// Debug, if true, will make the application log in a human readable format and at debug level.
	Debug    bool
	LogLevel string
	// RequestTimeout bounds every request made to the backend.
	RequestTimeout time.Duration
	// RetryAttempts is the number of attempts made for idempotent backend requests. Writes are never retried.
	RetryAttempts uint
	// UserCacheTTL is how long a resolved user, with their favorites and stories, is reused before being
	// fetched again. Any mutation made through the site invalidates it immediately.
	UserCacheTTL time.Duration
	// StoriesLimit is the maximum number of stories requested from the backend when listing them.
	StoriesLimit int
}

// Flags returns the command line flags understood by ReadConfig.
func Flags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("snooze", pflag.ContinueOnError)
	fs.String("config", "", "path to a configuration file")
	fs.String("addr", DefaultAddr, "address to listen on")
	fs.String("api_url", DefaultAPIURL, "base URL of the stories API")
	fs.String("static_dir", "static", "directory with static files")
	fs.String("site_name", "Hack or Snooze", "name of the site")
	fs.Bool("debug", false, "human readable logs at debug level")
	return fs
}

// ReadConfig builds the configuration from, in increasing order of precedence, defaults, an optional
// configuration file, SNOOZE_ prefixed environment variables and command line flags.
func ReadConfig(args []string) (Configuration, error) {
	v := viper.New()
	setDefaults(v)

	fs := Flags()
	if err := fs.Parse(args); err != nil {
		return Configuration{}, err
	}
	if err := v.BindPFlags(fs); err != nil {
		return Configuration{}, err
	}

	v.SetEnvPrefix("snooze")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("snooze")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/snooze")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Configuration{}, fmt.Errorf("failed to read configuration file: %w", err)
		}
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("addr", DefaultAddr)
	v.SetDefault("api_url", DefaultAPIURL)
	v.SetDefault("static_dir", "static")
	v.SetDefault("site_name", "Hack or Snooze")
	v.SetDefault("session_secret", "")
	v.SetDefault("session_lifetime", 24*time.Hour)
	v.SetDefault("secure_cookies", false)
	v.SetDefault("same_site", "Lax")
	v.SetDefault("debug", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("request_timeout", 10*time.Second)
	v.SetDefault("retry_attempts", 3)
	v.SetDefault("user_cache_ttl", 30*time.Second)
	v.SetDefault("stories_limit", 25)
}

func fromViper(v *viper.Viper) (cfg Configuration, err error) {
	apiURL, err := url.Parse(v.GetString("api_url"))
	if err != nil {
		return cfg, fmt.Errorf("invalid api_url: %w", err)
	}
	if apiURL.Scheme != "http" && apiURL.Scheme != "https" {
		return cfg, fmt.Errorf("invalid api_url %q: scheme must be http or https", apiURL)
	}

	cfg = Configuration{
		Addr:            v.GetString("addr"),
		APIURL:          apiURL,
		StaticDir:       v.GetString("static_dir"),
		Name:            v.GetString("site_name"),
		SessionSecret:   v.GetString("session_secret"),
		SessionLifetime: v.GetDuration("session_lifetime"),
		SecureCookies:   v.GetBool("secure_cookies"),
		SameSite:        v.GetString("same_site"),
		Debug:           v.GetBool("debug"),
		LogLevel:        v.GetString("log_level"),
		RequestTimeout:  v.GetDuration("request_timeout"),
		RetryAttempts:   v.GetUint("retry_attempts"),
		UserCacheTTL:    v.GetDuration("user_cache_ttl"),
		StoriesLimit:    v.GetInt("stories_limit"),
	}

	if len(cfg.SessionSecret) < minSecretLength {
		return cfg, fmt.Errorf("session_secret must be at least %d characters long", minSecretLength)
	}
	if cfg.SameSite != "Lax" && cfg.SameSite != "Strict" {
		return cfg, fmt.Errorf("invalid same_site %q: must be Lax or Strict", cfg.SameSite)
	}
	if cfg.RetryAttempts == 0 {
		cfg.RetryAttempts = 1
	}
	return cfg, nil
}

// SessionKey derives the key used to encrypt session cookies from the configured secret.
func (c *Configuration) SessionKey() (string, error) {
	r := hkdf.New(sha256.New, []byte(c.SessionSecret), nil, []byte("snooze session cookie"))
	key := make([]byte, SessionKeySize)
	if _, err := io.ReadFull(r, key); err != nil {
		return "", err
	}
	return string(key), nil
}
