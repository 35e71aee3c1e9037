package model

import "time"

// CategoryRule maps a category label to the keywords that select it.
// Rules are evaluated in declaration order; the first rule with any
// keyword contained in the text wins.
type CategoryRule struct {
	Name     string   `yaml:"name" mapstructure:"name"`
	Keywords []string `yaml:"keywords" mapstructure:"keywords"`
}

// Config holds all runtime configuration for tendertrack.
//
// Hierarchy (highest to lowest priority): CLI flags, environment
// variables (TENDERTRACK_*), config file (~/.tendertrack/config.yaml),
// defaults from DefaultConfig.
type Config struct {
	HTTP        HTTPConfig        `yaml:"http" mapstructure:"http"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Store       StoreConfig       `yaml:"store" mapstructure:"store"`
	Policy      PolicyConfig      `yaml:"policy" mapstructure:"policy"`
	Sources     SourcesConfig     `yaml:"sources" mapstructure:"sources"`
	Alerts      AlertConfig       `yaml:"alerts" mapstructure:"alerts"`
	Digest      DigestConfig      `yaml:"digest" mapstructure:"digest"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`

	Categories     []CategoryRule `yaml:"categories" mapstructure:"categories"`
	PriorityBuyers []string       `yaml:"priority_buyers" mapstructure:"priority_buyers"`
}

// HTTPConfig controls outbound requests made by adapters.
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	HTTPProxy    string        `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy   string        `yaml:"https_proxy" mapstructure:"https_proxy"`

	// RequestsPerSecond and Burst feed the per-host rate limiter.
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`

	// PolitenessDelay is an extra pause between search requests inside a
	// single adapter. Load shaping only, not a correctness requirement.
	PolitenessDelay time.Duration `yaml:"politeness_delay" mapstructure:"politeness_delay"`

	RespectRobots bool `yaml:"respect_robots" mapstructure:"respect_robots"`
}

// CacheConfig controls the fetched-page cache.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir     string        `yaml:"dir" mapstructure:"dir"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// ConcurrencyConfig bounds parallel adapter scrapes. Workers == 1 runs
// adapters sequentially; parallelism only affects wall-clock time.
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// StoreConfig selects the persistence and dedup backends.
type StoreConfig struct {
	// Path of the sqlite database file. Empty uses ~/.tendertrack/tenders.db.
	SQLitePath string `yaml:"sqlite_path" mapstructure:"sqlite_path"`

	// RedisURL, when set, keeps the dedup key set in redis so several
	// runners can share it. Tender rows still go to sqlite.
	RedisURL string `yaml:"redis_url" mapstructure:"redis_url"`
}

// PolicyConfig selects the filter/alert generation.
type PolicyConfig struct {
	// Mode is "broad" or "narrow".
	Mode string `yaml:"mode" mapstructure:"mode"`

	// InsuranceCategory names the category that narrow mode retains and
	// broad mode always alerts on.
	InsuranceCategory string `yaml:"insurance_category" mapstructure:"insurance_category"`
}

// SourcesConfig carries per-portal settings and credentials.
type SourcesConfig struct {
	Enabled []string `yaml:"enabled" mapstructure:"enabled"`

	ETendersUsername string `yaml:"etenders_username" mapstructure:"etenders_username"`
	ETendersPassword string `yaml:"etenders_password" mapstructure:"etenders_password"`

	// KeywordsPerCategory bounds how many keywords each category
	// contributes to EasyTenders search queries.
	KeywordsPerCategory int `yaml:"keywords_per_category" mapstructure:"keywords_per_category"`
}

// AlertConfig configures the SMTP alert sink. Missing credentials
// disable delivery without failing the run.
type AlertConfig struct {
	SMTPServer   string   `yaml:"smtp_server" mapstructure:"smtp_server"`
	SMTPPort     int      `yaml:"smtp_port" mapstructure:"smtp_port"`
	Username     string   `yaml:"username" mapstructure:"username"`
	Password     string   `yaml:"password" mapstructure:"password"`
	Recipients   []string `yaml:"recipients" mapstructure:"recipients"`
	DashboardURL string   `yaml:"dashboard_url" mapstructure:"dashboard_url"`
}

// DigestConfig configures the optional LLM run digest. The digest is
// generated after filtering and alerting and never affects either.
type DigestConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Model   string `yaml:"model" mapstructure:"model"`
	APIKey  string `yaml:"-" mapstructure:"-"`
}

// OutputConfig controls report rendering.
type OutputConfig struct {
	Verbose  bool   `yaml:"verbose" mapstructure:"verbose"`
	JSONPath string `yaml:"json_path" mapstructure:"json_path"`
}

// DefaultConfig returns the built-in configuration: the category keyword
// tables and priority-buyer watch list ship as defaults but remain plain
// configuration — nothing in the pipeline reads them from anywhere else.
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:           25 * time.Second,
			UserAgent:         "tendertrack/1.0 (+https://github.com/praeto/tendertrack)",
			MaxBodyBytes:      4_000_000,
			RequestsPerSecond: 1,
			Burst:             3,
			PolitenessDelay:   time.Second,
			RespectRobots:     true,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     30 * time.Minute,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 3,
		},
		Policy: PolicyConfig{
			Mode:              "broad",
			InsuranceCategory: "insurance",
		},
		Sources: SourcesConfig{
			Enabled:             []string{"etenders", "easytenders", "transnet"},
			KeywordsPerCategory: 5,
		},
		Alerts: AlertConfig{
			SMTPServer: "smtp.office365.com",
			SMTPPort:   587,
		},
		Digest: DigestConfig{
			Model: "gpt-4o-mini",
		},
		Categories: []CategoryRule{
			{
				Name: "insurance",
				Keywords: []string{
					"insurance", "broker", "risk management", "underwriting",
					"policy", "premium", "claim", "sasria", "fidelity",
					"liability", "indemnity", "surety", "bond", "actuarial",
					"loss control", "marine", "aviation", "motor fleet",
					"short-term", "medical aid", "pension", "provident", "guarantee",
				},
			},
			{
				Name: "advisory_consulting",
				Keywords: []string{
					"advisory", "consultant", "consulting", "risk advisory",
					"financial advisory", "strategy", "actuarial services",
					"management consulting", "business advisory", "feasibility",
					"audit", "internal audit", "forensic", "governance",
					"professional services",
				},
			},
			{
				Name: "civil_engineering",
				Keywords: []string{
					"civil engineering", "infrastructure", "roads", "bridges",
					"water", "sewer", "stormwater", "earthworks", "structural",
					"pavement", "drainage", "bulk services",
				},
			},
			{
				Name: "cleaning_facility",
				Keywords: []string{
					"cleaning", "facilities", "facility management", "hygiene",
					"sanitation", "waste management", "grounds maintenance",
					"janitorial", "pest control", "landscaping",
				},
			},
			{
				Name: "construction",
				Keywords: []string{
					"construction", "building", "renovation", "refurbishment",
					"structural", "concrete", "roofing", "painting", "electrical",
					"plumbing", "hvac", "maintenance", "alterations",
				},
			},
		},
		PriorityBuyers: []string{
			"Chief Albert Luthuli Municipality",
			"Financial and Fiscal Commission",
			"CIDB",
			"National Treasury",
			"AEMFC",
			"ERWAT",
			"MQA",
			"TASEZ",
			"ARC",
			"MerSETA",
			"Mogalakwena",
		},
	}
}
