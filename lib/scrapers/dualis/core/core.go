package core

import (
	"context"
	"dualis-watch/lib/restyutil"
	"dualis-watch/lib/telemetry"
	"errors"
	"fmt"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"github.com/purpleclay/chomp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"
)

var tracer = otel.Tracer("dualis-watch/scrapers/dualis/core")

var ErrLoginFailed = errors.New("failed to login to your account")
var ErrNotLoggedIn = errors.New("client has no session, call Login first")

const scriptPath = "/scripts/mgrqispi.dll"

type Client struct {
	BaseUrl   *url.URL
	Http      *resty.Client
	SessionId string
}

type ClientOptions struct {
	BaseUrl string
	// defaults to 30 seconds
	Timeout time.Duration
	// defaults to 2, a negative value disables pacing
	RequestsPerSecond float64
	CloudflareBypass  bool
	// receives a dump of every exchange when set
	Output restyutil.InstrumentOutput
}

func NewClient(ctx context.Context, opts ClientOptions) (*Client, error) {
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}
	if baseUrl.Scheme == "" || baseUrl.Host == "" {
		return nil, fmt.Errorf("base url '%s' must be absolute", opts.BaseUrl)
	}

	client := resty.New()
	client.SetBaseURL(strings.TrimSuffix(baseUrl.String(), "/"))
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	if opts.CloudflareBypass {
		client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	}

	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = time.Second * 30
	}
	client.SetTimeout(timeout)

	perSecond := opts.RequestsPerSecond
	if perSecond == 0 {
		perSecond = 2
	}
	if perSecond > 0 {
		// max burst >= 2 just means that no requests will be dropped
		rateLimiter := rate.NewLimiter(rate.Limit(perSecond), 2)
		client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			return rateLimiter.Wait(req.Context())
		})
	}

	telemetry.InstrumentResty(client, "dualis-watch/scrapers/dualis/http")
	restyutil.InstrumentClient(client, opts.Output)

	return &Client{
		BaseUrl: baseUrl,
		Http:    client,
	}, nil
}

// ProgramPath builds the path of a CampusNet program with the session
// id as the first argument.
func (c *Client) ProgramPath(program string, args ...string) string {
	arguments := append([]string{"-N" + c.SessionId}, args...)
	query := fmt.Sprintf(
		"APPNAME=CampusNet&PRGNAME=%s&ARGUMENTS=%s",
		program,
		strings.Join(arguments, ","),
	)
	return scriptPath + "?" + query
}

// sessionArgument reads the first numeric "-N" argument of a CampusNet url.
func sessionArgument() chomp.Combinator[string] {
	return func(s string) (string, string, error) {
		rem, ext, err := chomp.All(
			chomp.Until("ARGUMENTS=-N"),
			chomp.Tag("ARGUMENTS=-N"),
			chomp.Any("0123456789"),
		)(s)
		if err != nil {
			return rem, "", err
		}
		return rem, ext[2], nil
	}
}

func parseSessionId(refresh string) (string, bool) {
	_, id, err := sessionArgument()(refresh)
	if err != nil || id == "" {
		return "", false
	}
	return id, true
}

func (c *Client) Login(ctx context.Context, username, password string) error {
	ctx, span := tracer.Start(ctx, "client:Login")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"usrname":   username,
			"pass":      password,
			"APPNAME":   "CampusNet",
			"PRGNAME":   "LOGINCHECK",
			"ARGUMENTS": "clino,usrname,pass,menuno,menu_type,browser,platform",
			"clino":     "000000000000001",
			"menuno":    "000324",
			"menu_type": "classic",
			"browser":   "",
			"platform":  "",
		}).
		Post(scriptPath)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to make login request")
		return err
	}
	if res.IsError() {
		err := fmt.Errorf("login request: unexpected status %s", res.Status())
		span.RecordError(err)
		span.SetStatus(codes.Error, "login request failed")
		return err
	}

	sessionId, ok := parseSessionId(res.Header().Get("REFRESH"))
	if !ok {
		span.SetStatus(codes.Error, ErrLoginFailed.Error())
		return ErrLoginFailed
	}
	c.SessionId = sessionId
	return nil
}

func (c *Client) get(ctx context.Context, name, path string) ([]byte, error) {
	ctx, span := tracer.Start(ctx, name)
	defer span.End()

	if c.SessionId == "" {
		span.SetStatus(codes.Error, ErrNotLoggedIn.Error())
		return nil, ErrNotLoggedIn
	}

	res, err := c.Http.R().
		SetContext(ctx).
		Get(path)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch")
		return nil, err
	}
	if res.IsError() {
		err := fmt.Errorf("%s: unexpected status %s", name, res.Status())
		span.RecordError(err)
		span.SetStatus(codes.Error, "unexpected status")
		return nil, err
	}
	span.SetAttributes(attribute.Int("size", len(res.Body())))
	return res.Body(), nil
}

// Overview fetches the flat table of all results.
func (c *Client) Overview(ctx context.Context) ([]byte, error) {
	return c.get(ctx, "client:Overview", c.ProgramPath(
		"STUDENT_RESULT",
		"-N000310", "-N0", "-N000000000000000", "-N000000000000000",
		"-N000000000000000", "-N0", "-N000000000000000",
	))
}

// SemesterListing fetches the course results of one semester, an empty
// semester selects the portal's default.
func (c *Client) SemesterListing(ctx context.Context, semester string) ([]byte, error) {
	args := []string{"-N000307"}
	if semester != "" {
		args = append(args, "-N"+semester)
	}
	return c.get(ctx, "client:SemesterListing", c.ProgramPath("COURSERESULTS", args...))
}

// Page fetches a link found on another page. Links to other hosts are
// refused so the session cookie never leaves the portal.
func (c *Client) Page(ctx context.Context, link string) ([]byte, error) {
	target, err := c.BaseUrl.Parse(link)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(target.Host, c.BaseUrl.Host) {
		return nil, fmt.Errorf("refusing to follow link to foreign host '%s'", target.Host)
	}
	return c.get(ctx, "client:Page", target.RequestURI())
}

// Logout ends the session, failures are returned but leave the client
// without a session either way.
func (c *Client) Logout(ctx context.Context) error {
	if c.SessionId == "" {
		return nil
	}
	_, err := c.get(ctx, "client:Logout", c.ProgramPath("LOGOUT", "-N001"))
	c.SessionId = ""
	return err
}
