// Package config loads application settings from config.toml and
// S15_-prefixed environment variables, applies defaults and enforces
// the production hardening rules.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root of all application configuration.
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Cookie    CookieConfig
	Log       LogConfig
	HTTP      HTTPConfig
	Scheduler SchedulerConfig
	Storage   StorageConfig
	Mail      MailConfig
	AI        AIConfig
	Swagger   SwaggerConfig
	Telemetry TelemetryConfig
}

// AppConfig identifies the service and the environment it runs in.
type AppConfig struct {
	Name string
	Env  string // development, testing, production
	Port string
}

// DatabaseConfig holds PostgreSQL connection and pool settings.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // minutes
	ConnMaxIdleTime int // minutes
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// JWTConfig holds access and refresh token settings.
type JWTConfig struct {
	Secret                 string
	AccessTokenExpiration  time.Duration
	RefreshTokenExpiration time.Duration
	Issuer                 string
	RefreshSecret          string
	MaxRefreshCount        int
}

// CookieConfig controls the refresh token cookie.
type CookieConfig struct {
	Domain   string // empty means current domain
	Path     string
	Secure   bool
	SameSite string // strict, lax or none
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or a file path
}

// HTTPConfig holds server timeouts, body limits, rate limiting and CORS.
type HTTPConfig struct {
	ReadTimeout           time.Duration
	WriteTimeout          time.Duration
	IdleTimeout           time.Duration
	MaxHeaderBytes        int
	MaxBodySize           int64
	RateLimitEnabled      bool
	RateLimitRequests     int
	RateLimitWindow       time.Duration
	AuthRateLimitEnabled  bool
	AuthRateLimitRequests int
	AuthRateLimitWindow   time.Duration
	CORSAllowOrigins      []string
	CORSAllowMethods      []string
	CORSAllowHeaders      []string
	TrustedProxies        []string
}

// SchedulerConfig drives the background jobs: the monthly billing run,
// the daily overdue and quotation-expiry sweeps and campaign dispatch.
type SchedulerConfig struct {
	Enabled              bool
	BillingCronSchedule  string
	DailyCronSchedule    string
	DispatchPollInterval time.Duration
	MaxConcurrentJobs    int
	JobTimeout           time.Duration
	RetryAttempts        int
	RetryDelay           time.Duration
}

// StorageConfig holds S3-compatible object storage settings for invoice
// PDFs and expense attachments.
type StorageConfig struct {
	Enabled         bool
	Bucket          string
	Region          string
	Endpoint        string // custom endpoint for S3-compatible stores, empty means AWS
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool // required by MinIO and most S3-compatible stores
	PresignTTL      time.Duration
}

// MailConfig holds SMTP settings for transactional and campaign mail.
type MailConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Username string
	Password string
	From     string // e.g. "Square 15 <noreply@square15.co.za>"
}

// AIConfig holds settings for the insights assistant. Any
// OpenAI-compatible chat completions endpoint works.
type AIConfig struct {
	Enabled bool
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// SwaggerConfig controls access to the API documentation endpoint.
type SwaggerConfig struct {
	Enabled     bool
	RequireAuth bool
	AllowedIPs  []string // empty allows all
}

// TelemetryConfig holds OpenTelemetry and profiling settings.
type TelemetryConfig struct {
	Enabled           bool
	CollectorEndpoint string // OTLP gRPC, e.g. "localhost:4317"
	SamplingRatio     float64
	ServiceName       string
	Insecure          bool // plain-text OTLP, development only
	LogsEnabled       bool // ship application logs to the collector

	DBTraceEnabled    bool
	DBLogFullSQL      bool // record full SQL in spans, never in production
	DBSlowQueryThresh time.Duration

	ProfilingEnabled    bool
	ProfilingServerAddr string
}

// Load reads config.toml if present, overlays S15_-prefixed environment
// variables and fills the remaining fields with defaults. Environment
// variables win over the file; the file wins over defaults.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./backend")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine, env vars and defaults carry the rest.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	v.SetEnvPrefix("S15")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App:       loadApp(v),
		Database:  loadDatabase(v),
		Redis:     loadRedis(v),
		JWT:       loadJWT(v),
		Cookie:    loadCookie(v),
		Log:       loadLog(v),
		HTTP:      loadHTTP(v),
		Scheduler: loadScheduler(v),
		Storage:   loadStorage(v),
		Mail:      loadMail(v),
		AI:        loadAI(v),
		Swagger:   loadSwagger(v),
		Telemetry: loadTelemetry(v),
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadApp(v *viper.Viper) AppConfig {
	return AppConfig{
		Name: v.GetString("app.name"),
		Env:  v.GetString("app.env"),
		Port: v.GetString("app.port"),
	}
}

func loadDatabase(v *viper.Viper) DatabaseConfig {
	return DatabaseConfig{
		Host:            v.GetString("database.host"),
		Port:            v.GetInt("database.port"),
		User:            v.GetString("database.user"),
		Password:        v.GetString("database.password"),
		DBName:          v.GetString("database.dbname"),
		SSLMode:         v.GetString("database.sslmode"),
		MaxOpenConns:    v.GetInt("database.max_open_conns"),
		MaxIdleConns:    v.GetInt("database.max_idle_conns"),
		ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
		ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
	}
}

func loadRedis(v *viper.Viper) RedisConfig {
	return RedisConfig{
		Host:     v.GetString("redis.host"),
		Port:     v.GetInt("redis.port"),
		Password: v.GetString("redis.password"),
		DB:       v.GetInt("redis.db"),
	}
}

func loadJWT(v *viper.Viper) JWTConfig {
	return JWTConfig{
		Secret:                 v.GetString("jwt.secret"),
		AccessTokenExpiration:  v.GetDuration("jwt.access_token_expiration"),
		RefreshTokenExpiration: v.GetDuration("jwt.refresh_token_expiration"),
		Issuer:                 v.GetString("jwt.issuer"),
		RefreshSecret:          v.GetString("jwt.refresh_secret"),
		MaxRefreshCount:        v.GetInt("jwt.max_refresh_count"),
	}
}

func loadCookie(v *viper.Viper) CookieConfig {
	return CookieConfig{
		Domain:   v.GetString("cookie.domain"),
		Path:     v.GetString("cookie.path"),
		Secure:   v.GetBool("cookie.secure"),
		SameSite: v.GetString("cookie.same_site"),
	}
}

func loadLog(v *viper.Viper) LogConfig {
	return LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
		Output: v.GetString("log.output"),
	}
}

func loadHTTP(v *viper.Viper) HTTPConfig {
	return HTTPConfig{
		ReadTimeout:           v.GetDuration("http.read_timeout"),
		WriteTimeout:          v.GetDuration("http.write_timeout"),
		IdleTimeout:           v.GetDuration("http.idle_timeout"),
		MaxHeaderBytes:        v.GetInt("http.max_header_bytes"),
		MaxBodySize:           v.GetInt64("http.max_body_size"),
		RateLimitEnabled:      v.GetBool("http.rate_limit_enabled"),
		RateLimitRequests:     v.GetInt("http.rate_limit_requests"),
		RateLimitWindow:       v.GetDuration("http.rate_limit_window"),
		AuthRateLimitEnabled:  v.GetBool("http.auth_rate_limit_enabled"),
		AuthRateLimitRequests: v.GetInt("http.auth_rate_limit_requests"),
		AuthRateLimitWindow:   v.GetDuration("http.auth_rate_limit_window"),
		CORSAllowOrigins:      v.GetStringSlice("http.cors_allow_origins"),
		CORSAllowMethods:      v.GetStringSlice("http.cors_allow_methods"),
		CORSAllowHeaders:      v.GetStringSlice("http.cors_allow_headers"),
		TrustedProxies:        v.GetStringSlice("http.trusted_proxies"),
	}
}

func loadScheduler(v *viper.Viper) SchedulerConfig {
	return SchedulerConfig{
		Enabled:              v.GetBool("scheduler.enabled"),
		BillingCronSchedule:  v.GetString("scheduler.billing_cron_schedule"),
		DailyCronSchedule:    v.GetString("scheduler.daily_cron_schedule"),
		DispatchPollInterval: v.GetDuration("scheduler.dispatch_poll_interval"),
		MaxConcurrentJobs:    v.GetInt("scheduler.max_concurrent_jobs"),
		JobTimeout:           v.GetDuration("scheduler.job_timeout"),
		RetryAttempts:        v.GetInt("scheduler.retry_attempts"),
		RetryDelay:           v.GetDuration("scheduler.retry_delay"),
	}
}

func loadStorage(v *viper.Viper) StorageConfig {
	return StorageConfig{
		Enabled:         v.GetBool("storage.enabled"),
		Bucket:          v.GetString("storage.bucket"),
		Region:          v.GetString("storage.region"),
		Endpoint:        v.GetString("storage.endpoint"),
		AccessKeyID:     v.GetString("storage.access_key_id"),
		SecretAccessKey: v.GetString("storage.secret_access_key"),
		UsePathStyle:    v.GetBool("storage.use_path_style"),
		PresignTTL:      v.GetDuration("storage.presign_ttl"),
	}
}

func loadMail(v *viper.Viper) MailConfig {
	return MailConfig{
		Enabled:  v.GetBool("mail.enabled"),
		Host:     v.GetString("mail.host"),
		Port:     v.GetInt("mail.port"),
		Username: v.GetString("mail.username"),
		Password: v.GetString("mail.password"),
		From:     v.GetString("mail.from"),
	}
}

func loadAI(v *viper.Viper) AIConfig {
	return AIConfig{
		Enabled: v.GetBool("ai.enabled"),
		BaseURL: v.GetString("ai.base_url"),
		APIKey:  v.GetString("ai.api_key"),
		Model:   v.GetString("ai.model"),
		Timeout: v.GetDuration("ai.timeout"),
	}
}

func loadSwagger(v *viper.Viper) SwaggerConfig {
	return SwaggerConfig{
		Enabled:     v.GetBool("swagger.enabled"),
		RequireAuth: v.GetBool("swagger.require_auth"),
		AllowedIPs:  v.GetStringSlice("swagger.allowed_ips"),
	}
}

func loadTelemetry(v *viper.Viper) TelemetryConfig {
	return TelemetryConfig{
		Enabled:             v.GetBool("telemetry.enabled"),
		CollectorEndpoint:   v.GetString("telemetry.collector_endpoint"),
		SamplingRatio:       v.GetFloat64("telemetry.sampling_ratio"),
		ServiceName:         v.GetString("telemetry.service_name"),
		Insecure:            v.GetBool("telemetry.insecure"),
		LogsEnabled:         v.GetBool("telemetry.logs_enabled"),
		DBTraceEnabled:      v.GetBool("telemetry.db_trace_enabled"),
		DBLogFullSQL:        v.GetBool("telemetry.db_log_full_sql"),
		DBSlowQueryThresh:   v.GetDuration("telemetry.db_slow_query_threshold"),
		ProfilingEnabled:    v.GetBool("telemetry.profiling_enabled"),
		ProfilingServerAddr: v.GetString("telemetry.profiling_server_address"),
	}
}

// applyDefaults fills unset fields section by section. A zero value
// counts as unset.
func (c *Config) applyDefaults() {
	c.App.applyDefaults()
	c.Database.applyDefaults()
	c.Redis.applyDefaults()
	c.JWT.applyDefaults()
	c.Cookie.applyDefaults()
	c.Log.applyDefaults()
	c.HTTP.applyDefaults()
	c.Scheduler.applyDefaults()
	c.Storage.applyDefaults()
	c.Mail.applyDefaults()
	c.AI.applyDefaults()
	c.Telemetry.applyDefaults()
}

func (a *AppConfig) applyDefaults() {
	if a.Name == "" {
		a.Name = "square15-backend"
	}
	if a.Env == "" {
		a.Env = "development"
	}
	if a.Port == "" {
		a.Port = "8080"
	}
}

func (d *DatabaseConfig) applyDefaults() {
	if d.Host == "" {
		d.Host = "localhost"
	}
	if d.Port == 0 {
		d.Port = 5432
	}
	if d.User == "" {
		d.User = "postgres"
	}
	if d.DBName == "" {
		d.DBName = "square15"
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}
	if d.MaxOpenConns == 0 {
		d.MaxOpenConns = 25
	}
	if d.MaxIdleConns == 0 {
		d.MaxIdleConns = 5
	}
	if d.ConnMaxLifetime == 0 {
		d.ConnMaxLifetime = 60
	}
	if d.ConnMaxIdleTime == 0 {
		d.ConnMaxIdleTime = 30
	}
}

func (r *RedisConfig) applyDefaults() {
	if r.Host == "" {
		r.Host = "localhost"
	}
	if r.Port == 0 {
		r.Port = 6379
	}
}

func (j *JWTConfig) applyDefaults() {
	if j.AccessTokenExpiration == 0 {
		j.AccessTokenExpiration = 15 * time.Minute
	}
	if j.RefreshTokenExpiration == 0 {
		j.RefreshTokenExpiration = 168 * time.Hour
	}
	if j.Issuer == "" {
		j.Issuer = "square15-backend"
	}
	if j.MaxRefreshCount == 0 {
		j.MaxRefreshCount = 10
	}
}

func (c *CookieConfig) applyDefaults() {
	if c.Path == "" {
		c.Path = "/"
	}
	if c.SameSite == "" {
		c.SameSite = "lax"
	}
}

func (l *LogConfig) applyDefaults() {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "console"
	}
	if l.Output == "" {
		l.Output = "stdout"
	}
}

func (h *HTTPConfig) applyDefaults() {
	if h.ReadTimeout == 0 {
		h.ReadTimeout = 15 * time.Second
	}
	if h.WriteTimeout == 0 {
		h.WriteTimeout = 15 * time.Second
	}
	if h.IdleTimeout == 0 {
		h.IdleTimeout = 60 * time.Second
	}
	if h.MaxHeaderBytes == 0 {
		h.MaxHeaderBytes = 1 << 20
	}
	if h.MaxBodySize == 0 {
		h.MaxBodySize = 10 << 20
	}
	if h.RateLimitRequests == 0 {
		h.RateLimitRequests = 100
	}
	if h.RateLimitWindow == 0 {
		h.RateLimitWindow = time.Minute
	}
	if h.AuthRateLimitRequests == 0 {
		h.AuthRateLimitRequests = 5
	}
	if h.AuthRateLimitWindow == 0 {
		h.AuthRateLimitWindow = time.Minute
	}
	// CORS origins have no fallback: an empty list allows no cross-origin
	// requests until origins are configured explicitly.
	if len(h.CORSAllowMethods) == 0 {
		h.CORSAllowMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"}
	}
	if len(h.CORSAllowHeaders) == 0 {
		h.CORSAllowHeaders = []string{"Content-Type", "Authorization", "X-Request-ID", "X-Tenant-ID"}
	}
}

func (s *SchedulerConfig) applyDefaults() {
	if s.BillingCronSchedule == "" {
		s.BillingCronSchedule = "0 4 1 * *" // 04:00 on the 1st of each month
	}
	if s.DailyCronSchedule == "" {
		s.DailyCronSchedule = "0 2 * * *"
	}
	if s.DispatchPollInterval == 0 {
		s.DispatchPollInterval = time.Minute
	}
	if s.MaxConcurrentJobs == 0 {
		s.MaxConcurrentJobs = 3
	}
	if s.JobTimeout == 0 {
		s.JobTimeout = 30 * time.Minute
	}
	if s.RetryAttempts == 0 {
		s.RetryAttempts = 3
	}
	if s.RetryDelay == 0 {
		s.RetryDelay = 5 * time.Minute
	}
}

func (s *StorageConfig) applyDefaults() {
	if s.Region == "" {
		s.Region = "af-south-1"
	}
	if s.PresignTTL == 0 {
		s.PresignTTL = 15 * time.Minute
	}
}

func (m *MailConfig) applyDefaults() {
	if m.Port == 0 {
		m.Port = 587
	}
}

func (a *AIConfig) applyDefaults() {
	if a.BaseURL == "" {
		a.BaseURL = "https://api.openai.com/v1"
	}
	if a.Model == "" {
		a.Model = "gpt-4o-mini"
	}
	if a.Timeout == 0 {
		a.Timeout = 60 * time.Second
	}
}

func (t *TelemetryConfig) applyDefaults() {
	if t.CollectorEndpoint == "" {
		t.CollectorEndpoint = "localhost:4317"
	}
	if t.SamplingRatio == 0 {
		t.SamplingRatio = 1.0
	}
	if t.ServiceName == "" {
		t.ServiceName = "square15-backend"
	}
	if t.DBSlowQueryThresh == 0 {
		t.DBSlowQueryThresh = 200 * time.Millisecond
	}
	if t.ProfilingServerAddr == "" {
		t.ProfilingServerAddr = "http://localhost:4040"
	}
}

func (c *Config) validate() error {
	if err := c.Database.validatePool(); err != nil {
		return err
	}
	if err := c.validateIntegrations(); err != nil {
		return err
	}
	if c.App.Env == "production" {
		if err := c.validateProduction(); err != nil {
			return err
		}
	}
	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio %f is outside 0.0-1.0", c.Telemetry.SamplingRatio)
	}
	return nil
}

func (d *DatabaseConfig) validatePool() error {
	if d.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be greater than zero")
	}
	if d.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns may not be negative")
	}
	if d.MaxIdleConns > d.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)", d.MaxIdleConns, d.MaxOpenConns)
	}
	return nil
}

// validateIntegrations checks the cross-field requirements of the
// optional integrations.
func (c *Config) validateIntegrations() error {
	if c.Storage.Enabled && c.Storage.Bucket == "" {
		return fmt.Errorf("storage.bucket is required when storage is enabled")
	}
	if c.Mail.Enabled {
		if c.Mail.Host == "" {
			return fmt.Errorf("mail.host is required when mail is enabled")
		}
		if c.Mail.From == "" {
			return fmt.Errorf("mail.from is required when mail is enabled")
		}
	}
	if c.AI.Enabled && c.AI.APIKey == "" {
		return fmt.Errorf("ai.api_key is required when ai is enabled")
	}
	return nil
}

// validateProduction enforces the hardening rules for production
// deployments: strong secrets, TLS to the database, secure cookies, no
// wildcard CORS, no open swagger and no SQL capture in traces.
func (c *Config) validateProduction() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("production deployments must set jwt.secret")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("production deployments need a jwt.secret of at least 32 characters")
	}
	if c.Database.Password == "" {
		return fmt.Errorf("production deployments must set database.password")
	}
	if c.Database.SSLMode == "disable" {
		return fmt.Errorf("production deployments may not run with database.sslmode 'disable'")
	}
	if !c.Cookie.Secure {
		return fmt.Errorf("production deployments must set cookie.secure=true")
	}
	if c.Cookie.SameSite == "none" && !c.Cookie.Secure {
		return fmt.Errorf("cookie.same_site=none only works with cookie.secure=true")
	}
	for _, origin := range c.HTTP.CORSAllowOrigins {
		if origin == "*" {
			return fmt.Errorf("production deployments must list CORS origins explicitly, '*' is not allowed")
		}
	}
	if c.Swagger.Enabled && !c.Swagger.RequireAuth && len(c.Swagger.AllowedIPs) == 0 {
		return fmt.Errorf("production deployments must keep swagger disabled, authenticated or IP restricted")
	}
	if c.Telemetry.DBLogFullSQL {
		return fmt.Errorf("production deployments must keep telemetry.db_log_full_sql off, full SQL in traces leaks data")
	}
	return nil
}

// DSN returns the postgres connection URL with escaped credentials.
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     d.DBName,
		RawQuery: url.Values{"sslmode": []string{d.SSLMode}}.Encode(),
	}
	return u.String()
}
