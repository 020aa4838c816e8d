package config

type Config struct {
	Environment  Environment
	Log          Log
	HTTP         HTTPServer
	BaseURL      string `env:"BASE_URL"`
	DatabasePath string `env:"DATABASE_PATH" envDefault:"funnel.db"`

	Paypal     Paypal     `envPrefix:"PAYPAL_"`
	MailerLite MailerLite `envPrefix:"MAILERLITE_"`
	Storage    Storage    `envPrefix:"STORAGE_"`
	Session    Session    `envPrefix:"SESSION_"`
	Pricing    Pricing    `envPrefix:"PRICE_"`
}

type Paypal struct {
	Environment    string `env:"ENVIRONMENT" envDefault:"sandbox"`
	ClientID       string `env:"CLIENT_ID"`
	ClientSecret   string `env:"CLIENT_SECRET"`
	PublicClientID string `env:"PUBLIC_CLIENT_ID"`
}

// BaseAPIURL resolves the PayPal REST host from the configured environment.
func (p *Paypal) BaseAPIURL() string {
	if p.Environment == "production" {
		return "https://api-m.paypal.com"
	}
	return "https://api-m.sandbox.paypal.com"
}

type MailerLite struct {
	BaseAPIURL string `env:"BASE_API_URL" envDefault:"https://api.mailerlite.com/api/v2"`
	APIKey     string `env:"API_KEY"`
	GroupID    string `env:"GROUP_ID"`
}

type Storage struct {
	Bucket      string `env:"BUCKET"`
	ObjectKey   string `env:"OBJECT_KEY" envDefault:"social-media-empire-bundle.zip"`
	FallbackURL string `env:"FALLBACK_URL" envDefault:"https://drive.google.com/uc?export=download&id=1tnqO7Tw4XVm1asJdnIN3orQrB5rkkJy-"`
}

type Session struct {
	Secret string `env:"SECRET"`
	// TTLMinutes bounds how long a purchase session stays valid after the
	// initial capture. The thank-you gate rejects anything older.
	TTLMinutes int `env:"TTL_MINUTES" envDefault:"30"`
}

// Pricing holds the fixed funnel price points. They are configuration
// constants, not a catalog.
type Pricing struct {
	Base      string `env:"BASE" envDefault:"17.00"`
	OrderBump string `env:"ORDER_BUMP" envDefault:"27.00"`
	Upsell    string `env:"UPSELL" envDefault:"97.00"`
	Downsell  string `env:"DOWNSELL" envDefault:"47.00"`
	Currency  string `env:"CURRENCY" envDefault:"USD"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}
