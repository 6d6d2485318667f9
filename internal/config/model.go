// internal/config/model.go
//
// Typed configuration model for Reing.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `.env`                         – dotenv values,
//   • `conf/global.yaml`                      – primary static file,
//   • `REING_`-prefixed environment overrides – highest precedence.
//
// Any string that begins with `vault:` is resolved through the Vault
// client before unmarshalling, so the model only ever holds plain values.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.
//   • Oxford commas, two spaces after periods.

package config

import "time"

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr      string        `koanf:"listen_addr"      validate:"required,hostname_port"`
	ForceHTTPS      bool          `koanf:"force_https"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Database selects the driver and pool limits.  For mysql the DSN must
// include parseTime=true.
type Database struct {
	Driver          string        `koanf:"driver"            validate:"oneof=mysql postgres"`
	DSN             string        `koanf:"dsn"               validate:"required"`
	MaxOpenConns    int           `koanf:"max_open_conns"    validate:"gte=0"`
	MaxIdleConns    int           `koanf:"max_idle_conns"    validate:"gte=0"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	AutoMigrate     bool          `koanf:"auto_migrate"`
}

// App holds site-wide settings.
type App struct {
	Domain   string `koanf:"domain"    validate:"required,hostname_port|hostname"`
	PageSize int    `koanf:"page_size" validate:"gte=1,lte=200"`
	CSRFKey  string `koanf:"csrf_key"  validate:"required,min=16"`
}

// Admin is the single answerer account.  PasswordHash is a bcrypt hash.
type Admin struct {
	Username     string `koanf:"username"      validate:"required"`
	PasswordHash string `koanf:"password_hash" validate:"required,startswith=$2"`
}

// Mailer announces new questions by SMTP.
type Mailer struct {
	Enabled  bool   `koanf:"enabled"`
	Host     string `koanf:"host"     validate:"required_if=Enabled true"`
	Port     int    `koanf:"port"     validate:"required_if=Enabled true,omitempty,gte=1,lte=65535"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
	From     string `koanf:"from"     validate:"required_if=Enabled true,omitempty,email"`
	To       string `koanf:"to"       validate:"required_if=Enabled true,omitempty,email"`
}

// Social announces new answers on a Mastodon-compatible server.
type Social struct {
	Enabled bool   `koanf:"enabled"`
	BaseURL string `koanf:"base_url" validate:"required_if=Enabled true,omitempty,url"`
	Token   string `koanf:"token"    validate:"required_if=Enabled true"`
	Hashtag string `koanf:"hashtag"`
}

// Notify sizes the notification queue.
type Notify struct {
	QueueSize int           `koanf:"queue_size" validate:"gte=1"`
	Spacing   time.Duration `koanf:"spacing"    validate:"gte=0"`
}

// Card configures the answer image renderer.
type Card struct {
	FontPath  string `koanf:"font_path"`
	CacheSize int    `koanf:"cache_size" validate:"gte=1"`
}

// Paths is resolved at runtime.
type Paths struct {
	Root string // REING_ROOT or discovered parent
}

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads.
type Config struct {
	HTTP     HTTP     `koanf:"http"`
	Database Database `koanf:"database"`
	App      App      `koanf:"app"`
	Admin    Admin    `koanf:"admin"`
	Mailer   Mailer   `koanf:"mailer"`
	Social   Social   `koanf:"social"`
	Notify   Notify   `koanf:"notify"`
	Card     Card     `koanf:"card"`
	Paths    Paths    `koanf:"-"`
}

// applyDefaults fills zero values the YAML left out.
func (c *Config) applyDefaults() {
	setDur := func(d *time.Duration, v time.Duration) {
		if *d == 0 {
			*d = v
		}
	}
	setInt := func(i *int, v int) {
		if *i == 0 {
			*i = v
		}
	}

	if c.HTTP.ListenAddr == "" {
		c.HTTP.ListenAddr = ":8080"
	}
	setDur(&c.HTTP.ReadTimeout, 10*time.Second)
	setDur(&c.HTTP.WriteTimeout, 15*time.Second)
	setDur(&c.HTTP.IdleTimeout, 60*time.Second)
	setDur(&c.HTTP.ShutdownTimeout, 20*time.Second)

	if c.Database.Driver == "" {
		c.Database.Driver = "mysql"
	}
	setInt(&c.App.PageSize, 20)
	setInt(&c.Notify.QueueSize, 512)
	setDur(&c.Notify.Spacing, 5*time.Second)
	setInt(&c.Card.CacheSize, 256)
	if c.Social.Hashtag == "" {
		c.Social.Hashtag = "reing"
	}
	if c.Mailer.Enabled {
		setInt(&c.Mailer.Port, 587)
	}
}
