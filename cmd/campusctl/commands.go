package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"

	"github.com/smartcampus/campus-portal/internal/core/domain"
	"github.com/smartcampus/campus-portal/internal/core/ports"
	"github.com/smartcampus/campus-portal/internal/core/service"
	"github.com/smartcampus/campus-portal/internal/core/session"
	"github.com/smartcampus/campus-portal/internal/infrastructure/apiclient"
	"github.com/smartcampus/campus-portal/internal/infrastructure/storage/file"
	"github.com/smartcampus/campus-portal/internal/pkg/config"
)

var errUsage = errors.New("usage")

const usage = `usage: campusctl [-api URL] [-state FILE] [-profile NAME] <command> [flags]

commands:
  login     -email E -password P
  signup    -name N -email E -password P [-role R] [-department D] [-phone P] [-student-id S] [-field key=value]...
  logout
  whoami
  request   [-X METHOD] [-d JSON] [-F field=value]... [-file field=path]... PATH
`

// app carries what every command needs. The API client is built on first
// use, so commands that never reach the API work without one configured.
type app struct {
	cfg    *config.Config
	log    zerolog.Logger
	client *apiclient.Client
	auth   *service.AuthService
	store  *session.Store
	out    io.Writer
}

func (a *app) apiClient() (*apiclient.Client, error) {
	if a.client != nil {
		return a.client, nil
	}
	client, err := apiclient.New(a.cfg.BaseURLOr(config.FallbackAPIURL),
		apiclient.WithTimeout(a.cfg.API.Timeout),
		apiclient.WithLogger(a.log.With().Str("component", "apiclient").Logger()),
	)
	if err != nil {
		return nil, err
	}
	a.client = client
	return client, nil
}

var _ ports.APIClient = (*app)(nil)

// Request satisfies ports.APIClient on top of the lazily built client.
func (a *app) Request(ctx context.Context, path string, opts ports.RequestOptions) (json.RawMessage, error) {
	client, err := a.apiClient()
	if err != nil {
		return nil, err
	}
	return client.Request(ctx, path, opts)
}

func run(ctx context.Context, args []string, env envconfig.Lookuper, out io.Writer, log zerolog.Logger) error {
	cfg, err := config.LoadWith(ctx, env)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	fs := flag.NewFlagSet("campusctl", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.Usage = func() { fmt.Fprint(fs.Output(), usage) }
	apiURL := fs.String("api", "", "API base URL (overrides CAMPUS_API_URL)")
	statePath := fs.String("state", defaultStatePath(cfg), "session state file")
	profile := fs.String("profile", "default", "session profile inside the state file")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errUsage
	}

	if *apiURL != "" {
		cfg.API.URLOverride = *apiURL
	}

	provider := file.NewProvider(*statePath, log)
	store := session.NewStore(provider.Scope(*profile), log)
	a := &app{cfg: cfg, log: log, store: store, out: out}
	a.auth = service.NewAuthService(a, log.With().Str("component", "auth").Logger())
	ctx = session.WithStore(ctx, store)

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "login":
		return a.login(ctx, rest)
	case "signup":
		return a.signup(ctx, rest)
	case "logout":
		return a.logout(ctx)
	case "whoami":
		return a.whoami(ctx)
	case "request":
		return a.request(ctx, rest)
	}
	fmt.Fprintf(out, "unknown command %q\n\n", cmd)
	fs.Usage()
	return errUsage
}

// defaultStatePath keeps the session next to the user's other config unless
// STORAGE_FILE points elsewhere.
func defaultStatePath(cfg *config.Config) string {
	if filepath.IsAbs(cfg.Storage.FilePath) {
		return cfg.Storage.FilePath
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "campusctl", cfg.Storage.FilePath)
	}
	return cfg.Storage.FilePath
}

type authOutput struct {
	User     domain.User `json:"user,omitempty"`
	Message  string      `json:"message,omitempty"`
	Redirect string      `json:"redirect"`
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(a.out)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	result, err := a.auth.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	return a.print(authOutput{
		User:     result.User,
		Message:  result.Message,
		Redirect: string(a.auth.RedirectToDashboard(string(result.User.Role()))),
	})
}

func (a *app) signup(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("signup", flag.ContinueOnError)
	fs.SetOutput(a.out)
	var in ports.SignupInput
	fs.StringVar(&in.Name, "name", "", "full name")
	fs.StringVar(&in.Email, "email", "", "account email")
	fs.StringVar(&in.Password, "password", "", "account password")
	fs.StringVar(&in.Role, "role", "", "student, faculty, maintenance or admin")
	fs.StringVar(&in.Department, "department", "", "department")
	fs.StringVar(&in.Phone, "phone", "", "phone number")
	fs.StringVar(&in.StudentID, "student-id", "", "student id")
	var extra multiFlag
	fs.Var(&extra, "field", "extra registration field as key=value (repeatable)")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	for _, kv := range extra {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			return fmt.Errorf("field %q: expected key=value", kv)
		}
		if in.Extra == nil {
			in.Extra = map[string]any{}
		}
		in.Extra[key] = value
	}

	result, err := a.auth.Signup(ctx, in)
	if err != nil {
		return err
	}
	dest := domain.DestinationLogin
	if result.Token != "" {
		dest = a.auth.RedirectToDashboard(string(result.User.Role()))
	}
	return a.print(authOutput{User: result.User, Message: result.Message, Redirect: string(dest)})
}

func (a *app) logout(ctx context.Context) error {
	dest, err := a.auth.Logout(ctx)
	if err != nil {
		return err
	}
	return a.print(authOutput{Redirect: string(dest)})
}

type whoamiOutput struct {
	Authenticated bool               `json:"authenticated"`
	User          domain.User        `json:"user,omitempty"`
	Token         *session.TokenInfo `json:"token,omitempty"`
	Redirect      string             `json:"redirect"`
}

func (a *app) whoami(ctx context.Context) error {
	s := a.store.Snapshot(ctx)
	out := whoamiOutput{
		Authenticated: s.Authenticated(),
		User:          s.User,
		Redirect:      string(domain.DestinationLogin),
	}
	if out.Authenticated {
		out.Redirect = string(domain.DashboardFor(s.Role()))
		if info, ok := session.InspectToken(s.Token); ok {
			out.Token = &info
		}
	}
	return a.print(out)
}

// multiFlag collects repeated flags.
type multiFlag []string

func (m *multiFlag) String() string     { return strings.Join(*m, ",") }
func (m *multiFlag) Set(v string) error { *m = append(*m, v); return nil }

func (a *app) request(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("request", flag.ContinueOnError)
	fs.SetOutput(a.out)
	method := fs.String("X", http.MethodGet, "HTTP method")
	data := fs.String("d", "", "JSON body")
	var fields, files multiFlag
	fs.Var(&fields, "F", "multipart field as name=value (repeatable)")
	fs.Var(&files, "file", "multipart file as name=path (repeatable)")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() != 1 {
		fmt.Fprint(a.out, usage)
		return errUsage
	}

	path := fs.Arg(0)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	opts := ports.RequestOptions{Method: strings.ToUpper(*method)}
	switch {
	case len(fields) > 0 || len(files) > 0:
		form, closeFiles, err := buildForm(fields, files)
		if err != nil {
			return err
		}
		defer closeFiles()
		opts.Body = form
	case *data != "":
		opts.Body = json.RawMessage(*data)
	}

	raw, err := a.Request(ctx, path, opts)
	if err != nil {
		return err
	}
	return a.print(raw)
}

func buildForm(fields, files []string) (*ports.FormData, func(), error) {
	form := &ports.FormData{Fields: map[string][]string{}}
	var opened []*os.File
	closeAll := func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}

	for _, kv := range fields {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, func() {}, fmt.Errorf("field %q: expected name=value", kv)
		}
		form.Fields[name] = append(form.Fields[name], value)
	}
	for _, kv := range files {
		name, path, ok := strings.Cut(kv, "=")
		if !ok {
			closeAll()
			return nil, func() {}, fmt.Errorf("file %q: expected name=path", kv)
		}
		f, err := os.Open(path)
		if err != nil {
			closeAll()
			return nil, func() {}, fmt.Errorf("open %s: %w", path, err)
		}
		opened = append(opened, f)
		form.Files = append(form.Files, ports.FormFile{Field: name, Filename: filepath.Base(path), Content: f})
	}
	return form, closeAll, nil
}

func (a *app) print(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
