// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package cfg1 makes it possible to load configuration settings with
// version 1.x.y since all minor and patch versions (which are known)
// with the same major version, can be loaded with one implementation.
// When trying to serialize and write out settings, the latest known
// minor and patch version will be used since older versions (with the
// same major version) can ignore the extra fields too.
package cfg1

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/momeni/clean-rental/pkg/adapter/config/comment"
	"github.com/momeni/clean-rental/pkg/adapter/config/settings"
	"github.com/momeni/clean-rental/pkg/adapter/config/vers"
	"github.com/momeni/clean-rental/pkg/adapter/db/jsonfile"
	"github.com/momeni/clean-rental/pkg/adapter/db/memory"
	"github.com/momeni/clean-rental/pkg/adapter/db/postgres"
	"github.com/momeni/clean-rental/pkg/adapter/db/postgres/recordsrp"
	rdb "github.com/momeni/clean-rental/pkg/adapter/db/redis"
	"github.com/momeni/clean-rental/pkg/adapter/restful/gin"
	"github.com/momeni/clean-rental/pkg/core/log"
	"github.com/momeni/clean-rental/pkg/core/model"
	"github.com/momeni/clean-rental/pkg/core/repo"
	"github.com/momeni/clean-rental/pkg/core/usecase/rentaluc"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// These constants define the major, minor, and patch version of the
// configuration settings which are supported by the Config struct.
const (
	Major = 1
	Minor = 0
	Patch = 0
)

// Version is the semantic version of Config struct.
var Version = model.SemVer{Major, Minor, Patch}

// Supported storage drivers.
const (
	DriverJSONFile = "jsonfile"
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// Config contains all settings which are required by different parts
// of the project following the v1.x.y format, such as adapters or
// use cases. It is preferred to implement Config with primitive fields
// or other structs which are defined locally, not models or structs
// which are defined in lower layers, so the configuration can be
// versioned and kept intact while other layers can change freely.
type Config struct {
	// LogLevel is one of debug, info, warn, or error.
	LogLevel string `yaml:"log-level"`

	Storage  Storage  // backing store of the rentals collections
	Gin      Gin      // Gin-Gonic instantiation settings
	Usecases Usecases // Configuration settings for supported use cases

	// Vers contains the configuration file and database schema version
	// strings corresponding to this Config instance.
	Vers vers.Config `yaml:",inline"`

	// Comments contains the YAML comment lines which are written right
	// before the actual settings lines, aka head-comments. They are
	// preserved when a loaded Config is marshaled again.
	Comments *comment.Comment `yaml:"-"`
}

// Storage selects one of the supported collection backends by its
// Driver name and holds the settings of all of them (only the
// selected one is used).
type Storage struct {
	Driver   string
	JSONFile JSONFile `yaml:"jsonfile"`
	Database Database
	Redis    Redis
}

// JSONFile contains the jsonfile storage settings.
type JSONFile struct {
	Dir string // directory of the cars.json, customers.json, etc.
}

// Database contains the PostgreSQL connection settings.
type Database struct {
	Host    string // domain name or IP address of the DBMS server
	Port    int    // port number of the DBMS server
	Name    string // database name, like rentals
	User    string // role name, like rentweb
	PassDir string `yaml:"pass-dir"` // path of the passwords dir

	// ConnectTimeout bounds the initial connection establishment.
	ConnectTimeout *settings.Duration `yaml:"connect-timeout"`
}

// Redis contains the redis storage settings.
type Redis struct {
	Addr     string
	Password string `yaml:",omitempty"`
	DB       int    `yaml:"db"`
	Prefix   string // prefix of the collection hash keys
}

// Stores opens the configured backing store and instantiates the
// rentals collections on it. The transactions collection is created
// only if persisting of transactions is enabled. Returned closer
// function releases the store resources and must be called after use.
func (c *Config) Stores(ctx context.Context) (
	s *repo.Stores, closer func() error, err error,
) {
	withTx := *c.Usecases.Rentals.PersistTransactions
	noop := func() error { return nil }
	switch d := c.Storage.Driver; d {
	case DriverJSONFile:
		s, err = jsonfile.NewStores(c.Storage.JSONFile.Dir, withTx)
		if err != nil {
			return nil, nil, fmt.Errorf("jsonfile.NewStores: %w", err)
		}
		return s, noop, nil
	case DriverMemory:
		return memory.NewStores(withTx), noop, nil
	case DriverPostgres:
		p, err := c.Storage.Database.ConnectionPool(ctx)
		if err != nil {
			return nil, nil, err
		}
		return recordsrp.NewStores(p, withTx), p.Close, nil
	case DriverRedis:
		client := c.Storage.Redis.NewClient()
		if err = client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("pinging redis: %w", err)
		}
		s = rdb.NewStores(client, c.Storage.Redis.Prefix, withTx)
		return s, client.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported storage driver: %q", d)
	}
}

// InitStorage prepares the configured backing store for its first use.
// Only the postgres driver needs a preparation, i.e., creation of its
// records table. Other backends create their files or keys lazily.
func (c *Config) InitStorage(ctx context.Context) error {
	if c.Storage.Driver != DriverPostgres {
		return nil
	}
	p, err := c.Storage.Database.ConnectionPool(ctx)
	if err != nil {
		return err
	}
	defer p.Close()
	if err = postgres.CreateSchema(ctx, p); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// SchemaVersion returns the semantic version of the database schema
// as recorded in this Config instance.
func (c *Config) SchemaVersion() model.SemVer {
	return c.Vers.Versions.Database
}

// ConnectionPool creates a database connection pool using the
// connection information which are kept in the `d` settings and the
// password which is read from the .pgpass file in the d.PassDir folder.
func (d Database) ConnectionPool(ctx context.Context) (*postgres.Pool, error) {
	path := filepath.Join(d.PassDir, ".pgpass")
	u, err := d.ConnectionURL(path)
	if err != nil {
		return nil, fmt.Errorf("using %q pass-file: %w", path, err)
	}
	log.Info(
		ctx, "connecting to database",
		slog.String("host", d.Host),
		slog.String("name", d.Name),
		log.Valuer("timeout", d.ConnectTimeout),
	)
	if d.ConnectTimeout != nil {
		var cancel context.CancelFunc
		timeout := time.Duration(*d.ConnectTimeout)
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	p, err := postgres.NewPool(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s:%d/%s: %w",
			d.Host, d.Port, d.Name, err)
	}
	return p, nil
}

// ConnectionURL returns the database connection URL embedding the host,
// port, role name, database name, and password value. The password is
// read from the given `path` file which may contain empty or
// `#`-commented lines in addition to the password specifying lines
// which should conform with the pgpass files format:
//
//	host:port:dbname:role:password
func (d Database) ConnectionURL(path string) (string, error) {
	passLines, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading pass-file: %w", err)
	}
	prfx := fmt.Sprintf("%s:%d:%s:%s:", d.Host, d.Port, d.Name, d.User)
	var pass string
	for _, line := range strings.Split(string(passLines), "\n") {
		if line == "" || line[0] == '#' {
			continue
		}
		if strings.HasPrefix(line, prfx) {
			pass = line[len(prfx):]
			break
		}
	}
	if pass == "" {
		return "", fmt.Errorf("no matching password line")
	}
	u := url.URL{
		Scheme: "postgresql",
		User:   url.UserPassword(d.User, pass),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.Name,
	}
	return u.String(), nil
}

// NewClient instantiates a redis client based on the `r` settings.
func (r Redis) NewClient() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     r.Addr,
		Password: r.Password,
		DB:       r.DB,
	})
}

// Gin contains the gin-gonic related configuration settings.
// Fields are defined as pointers, so it is possible to detect if they
// are or are not initialized and fill them by their defaults.
type Gin struct {
	Logger   *bool   // Whether to register the request logger middleware
	Recovery *bool   // Whether to register the recovery middleware
	Address  *string // Listening address, like :8080
}

// NewEngine instantiates a new gin-gonic engine instance based on
// the `g` settings.
func (g Gin) NewEngine() *gin.Engine {
	middlewares := make([]gin.HandlerFunc, 0, 2)
	if *g.Logger {
		middlewares = append(middlewares, gin.Logger())
	}
	if *g.Recovery {
		middlewares = append(middlewares, gin.Recovery())
	}
	return gin.New(middlewares...)
}

// Usecases contains the configuration settings for all use cases.
type Usecases struct {
	Rentals Rentals // rentals use cases related settings
}

// Rentals contains the configuration settings for the rentals use
// cases. Pointer fields may be left uninitialized in the configuration
// file and take their defaults during normalization.
type Rentals struct {
	// MaxDays limits the number of days of each rental. A nil value
	// (after normalization) means there is no limit.
	MaxDays *int `yaml:"max-days"`
	// MinMaxDays is the inclusive minimum acceptable value for the
	// MaxDays setting. A missing value indicates no lower bound.
	MinMaxDays *int `yaml:"max-days-minimum"`
	// MaxMaxDays is the inclusive maximum acceptable value for the
	// MaxDays setting. A missing value indicates no upper bound.
	MaxMaxDays *int `yaml:"max-days-maximum"`

	// CurrencyPlaces is the number of decimal places of amounts.
	CurrencyPlaces *int32 `yaml:"currency-places"`

	// PersistTransactions indicates if issued transactions should be
	// stored in the transactions collection.
	PersistTransactions *bool `yaml:"persist-transactions"`

	AgeBrackets []AgeBracket `yaml:"age-brackets"`
}

// AgeBracket maps the inclusive [From, To] ages range to a tax
// multiplier. The multiplier is kept as a string in order to be
// parsed as an exact decimal number.
type AgeBracket struct {
	From       int
	To         int
	Multiplier string
}

// NewUseCase instantiates a new rentals use case based on the settings
// in the `r` struct, using the `s` collections. Extra options (such as
// a random source or clock) may be passed by the caller too.
func (r Rentals) NewUseCase(
	s repo.Stores, extra ...rentaluc.Option,
) (*rentaluc.UseCase, error) {
	opts := make([]rentaluc.Option, 0, 3+len(extra))
	if r.MaxDays != nil {
		opts = append(opts, rentaluc.WithMaxDays(*r.MaxDays))
	}
	if r.CurrencyPlaces != nil {
		opts = append(opts, rentaluc.WithCurrencyPlaces(*r.CurrencyPlaces))
	}
	bs, err := r.Brackets()
	if err != nil {
		return nil, err
	}
	opts = append(opts, rentaluc.WithAgeBrackets(bs...))
	opts = append(opts, extra...)
	return rentaluc.New(s, opts...)
}

// Brackets parses the multipliers of the configured age brackets.
func (r Rentals) Brackets() ([]rentaluc.AgeBracket, error) {
	bs := make([]rentaluc.AgeBracket, 0, len(r.AgeBrackets))
	for i, b := range r.AgeBrackets {
		m, err := decimal.NewFromString(b.Multiplier)
		if err != nil {
			return nil, fmt.Errorf(
				"age-brackets[%d].multiplier=%q: %w", i, b.Multiplier, err,
			)
		}
		bs = append(bs, rentaluc.AgeBracket{
			From: b.From, To: b.To, Multiplier: m,
		})
	}
	return bs, nil
}

// Load unmarshals the data byte slice and loads a Config instance
// assuming that it contains the Config settings. Extra items in the
// data will be ignored and missing items will take their default
// values. Thereafter, loaded Config will be validated and normalized
// in order to ensure that provided settings are acceptable (for example
// the major version which is reported by data settings must match
// with number 1 which is the major version of this config package).
func Load(data []byte) (*Config, error) {
	n := &yaml.Node{}
	if err := yaml.Unmarshal(data, n); err != nil {
		return nil, fmt.Errorf("unmarshalling yaml: %w", err)
	}
	if l := len(n.Content); l != 1 {
		return nil, fmt.Errorf(
			"found %d children nodes, instead of 1 mapping child", l,
		)
	}
	c := &Config{}
	if err := n.Decode(c); err != nil {
		return nil, fmt.Errorf("decoding yaml node: %w", err)
	}
	if err := c.ValidateAndNormalize(); err != nil {
		return nil, fmt.Errorf("validating configs: %w", err)
	}
	cmnts, err := comment.LoadFrom(n.Content[0])
	if err != nil {
		return nil, fmt.Errorf("parsing comments: %w", err)
	}
	c.Comments = cmnts
	return c, nil
}

var (
	defaultLogLevel       = "info"
	defaultJSONFileDir    = "database"
	defaultAddress        = ":8080"
	defaultCurrencyPlaces = int32(rentaluc.DefaultCurrencyPlaces)
	defaultPersistTx      = true
)

// ValidateAndNormalize validates the configuration settings and
// returns an error if they were not acceptable. It can also modify
// settings in order to normalize them or replace some zero values with
// their expected default values (if any).
func (c *Config) ValidateAndNormalize() error {
	if err := c.Vers.CheckConfig(Version); err != nil {
		return fmt.Errorf("config version: %w", err)
	}
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	switch c.Storage.Driver {
	case "":
		c.Storage.Driver = DriverJSONFile
	case DriverJSONFile, DriverMemory, DriverPostgres, DriverRedis:
	default:
		return fmt.Errorf("unsupported storage driver: %q", c.Storage.Driver)
	}
	if c.Storage.JSONFile.Dir == "" {
		c.Storage.JSONFile.Dir = defaultJSONFileDir
	}
	settings.Nil2Zero(&c.Gin.Logger)
	settings.Nil2Zero(&c.Gin.Recovery)
	settings.OverwriteNil(&c.Gin.Address, &defaultAddress)
	r := &c.Usecases.Rentals
	settings.OverwriteNil(&r.CurrencyPlaces, &defaultCurrencyPlaces)
	settings.OverwriteNil(&r.PersistTransactions, &defaultPersistTx)
	if *r.CurrencyPlaces < 0 {
		return fmt.Errorf("negative currency places: %d", *r.CurrencyPlaces)
	}
	switch err := settings.VerifyRange(
		&r.MaxDays, r.MinMaxDays, r.MaxMaxDays,
	); {
	case err == nil:
	case err.InvalidRange:
		return fmt.Errorf(
			"max days boundaries (minb=%v, maxb=%v): %w",
			derefOrNil(r.MinMaxDays), derefOrNil(r.MaxMaxDays), err,
		)
	default:
		log.Warn(
			context.Background(),
			"max days is adjusted by boundary values",
			slog.Int("value", *err.Value),
			slog.Int("adjusted", *r.MaxDays),
		)
	}
	if _, err := r.Brackets(); err != nil {
		return fmt.Errorf("validating age brackets: %w", err)
	}
	return nil
}

func derefOrNil[T any](t *T) any {
	if t == nil {
		return nil
	}
	return *t
}

// Marshalled struct contains a field for each one of the Config struct
// fields. The yaml tag of fields are chosen to have consistent names
// after the serialization operation. Fields which need a specific
// encoding are replaced by their primitive counterparts.
type Marshalled struct {
	LogLevel string `yaml:"log-level"`
	Storage  struct {
		Driver   string
		JSONFile JSONFile `yaml:"jsonfile"`
		Database struct {
			Host           string
			Port           int
			Name           string
			User           string
			PassDir        string  `yaml:"pass-dir"`
			ConnectTimeout *string `yaml:"connect-timeout,omitempty"`
		}
		Redis Redis
	}
	Gin      Gin
	Usecases Usecases
	Vers     *vers.Marshalled `yaml:",inline"`
}

// MarshalYAML computes an instance of the Marshalled struct, as created
// by the Marshal method, so it may be marshalled instead of the `c`
// Config instance. Thereafter, it encodes *Marshalled as a yaml node
// instance and saves the preserved head `c.Comments` (if any) into the
// resulting *yaml.Node instance.
func (c *Config) MarshalYAML() (interface{}, error) {
	m := c.Marshal()
	n := &yaml.Node{}
	if err := n.Encode(m); err != nil {
		return nil, fmt.Errorf("encoding *Marshalled as YAML: %w", err)
	}
	if err := c.Comments.SaveInto(n); err != nil {
		return nil, fmt.Errorf("saving YAML nodes comments: %w", err)
	}
	return n, nil
}

// Marshal creates an instance of the Marshalled struct and fills it
// with the `c` Config instance contents.
func (c *Config) Marshal() *Marshalled {
	m := &Marshalled{}
	m.LogLevel = c.LogLevel
	m.Storage.Driver = c.Storage.Driver
	m.Storage.JSONFile = c.Storage.JSONFile
	d := c.Storage.Database
	m.Storage.Database.Host = d.Host
	m.Storage.Database.Port = d.Port
	m.Storage.Database.Name = d.Name
	m.Storage.Database.User = d.User
	m.Storage.Database.PassDir = d.PassDir
	m.Storage.Database.ConnectTimeout = d.ConnectTimeout.Marshal()
	m.Storage.Redis = c.Storage.Redis
	m.Gin = c.Gin
	m.Usecases = c.Usecases
	m.Vers = c.Vers.Marshal()
	return m
}
