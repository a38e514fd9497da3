package rpcclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/helios-labs/go-solana/pkg/solrpc"
)

const (
	defaultDialTimeout    = 4 * time.Second
	defaultRequestTimeout = 4 * time.Second
)

// Cluster RPC endpoints accepted by default. Any other endpoint requires
// the Local option, see https://docs.solana.com/cluster/rpc-endpoints.
const (
	MainnetBeta = "https://api.mainnet-beta.solana.com"
	Devnet      = "https://api.devnet.solana.com"
	Testnet     = "https://api.testnet.solana.com"
)

// WebSocket endpoints of the same clusters, accepted by NewWS.
const (
	MainnetBetaWS = "wss://api.mainnet-beta.solana.com"
	DevnetWS      = "wss://api.devnet.solana.com"
	TestnetWS     = "wss://api.testnet.solana.com"
)

// Client represents the middleman for executing JSON-RPC calls to remote
// Solana RPC nodes. Client is thread-safe and can be used from multiple
// goroutines. It holds no per-call state, every call is independent.
type Client struct {
	cli      *http.Client
	endpoint *url.URL
	ctx      context.Context
	opts     Options
	requestF func(*solrpc.Request) (*solrpc.Response, error)

	latestReqID *atomic.Uint64
	// getNextRequestID returns an ID to be used for the subsequent request creation.
	// It is defined on Client, so that our testing code can override this method
	// for the sake of more predictable request IDs generation behavior.
	getNextRequestID func() uint64
}

// Options defines options for the RPC client. All values are optional. If
// any duration is not specified, a default of 4 seconds will be used.
type Options struct {
	DialTimeout    time.Duration
	RequestTimeout time.Duration
	// Limit total number of connections per host. No limit by default.
	MaxConnsPerHost int
	// Local lifts the cluster endpoint check, allowing the client to talk
	// to a local development node.
	Local bool
	// Logger, when set, receives debug-level per-call records. Nothing is
	// logged by default.
	Logger *zap.Logger
}

// New returns a new Client ready to use. Unless opts.Local is set, the
// endpoint must be one of the cluster RPC endpoints. The endpoint cannot
// change after construction.
func New(ctx context.Context, endpoint string, opts Options) (*Client, error) {
	cl := new(Client)
	err := initClient(ctx, cl, endpoint, opts, clusterEndpoints)
	if err != nil {
		return nil, err
	}
	return cl, nil
}

var clusterEndpoints = map[string]bool{
	MainnetBeta: true,
	Devnet:      true,
	Testnet:     true,
}

var clusterWSEndpoints = map[string]bool{
	MainnetBetaWS: true,
	DevnetWS:      true,
	TestnetWS:     true,
}

func initClient(ctx context.Context, cl *Client, endpoint string, opts Options, known map[string]bool) error {
	if !opts.Local && !known[endpoint] {
		return fmt.Errorf("%w: %s", solrpc.ErrInvalidEndpoint, endpoint)
	}
	url, err := url.Parse(endpoint)
	if err != nil {
		return err
	}

	if opts.DialTimeout <= 0 {
		opts.DialTimeout = defaultDialTimeout
	}

	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = defaultRequestTimeout
	}

	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	httpClient := &http.Client{
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout: opts.DialTimeout,
			}).DialContext,
			MaxConnsPerHost: opts.MaxConnsPerHost,
		},
		Timeout: opts.RequestTimeout,
	}

	cl.ctx = ctx
	cl.cli = httpClient
	cl.endpoint = url
	cl.latestReqID = atomic.NewUint64(0)
	cl.getNextRequestID = (cl).getRequestID
	cl.opts = opts
	cl.requestF = cl.makeHTTPRequest
	return nil
}

func (c *Client) getRequestID() uint64 {
	return c.latestReqID.Inc()
}

// Endpoint returns the client's endpoint.
func (c *Client) Endpoint() string {
	return c.endpoint.String()
}

// Close closes unused underlying network connections.
func (c *Client) Close() {
	c.cli.CloseIdleConnections()
}

func (c *Client) performRequest(method string, p []interface{}) (*solrpc.Response, error) {
	var r = solrpc.NewRequest(c.getNextRequestID(), method, p)

	start := time.Now()
	raw, err := c.requestF(r)
	if err != nil {
		return nil, err
	}
	incCallCounter(method)
	c.opts.Logger.Debug("RPC call done",
		zap.String("method", method),
		zap.Duration("took", time.Since(start)))
	return raw, nil
}

func (c *Client) makeHTTPRequest(r *solrpc.Request) (*solrpc.Response, error) {
	var (
		buf = new(bytes.Buffer)
		raw = new(solrpc.Response)
	)

	if err := json.NewEncoder(buf).Encode(r); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(c.ctx, "POST", c.endpoint.String(), buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.cli.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// The node might send us a proper JSON anyway, so look there first and if
	// it parses, it has more relevant data than HTTP error code.
	err = json.NewDecoder(resp.Body).Decode(raw)
	if err != nil {
		if resp.StatusCode != http.StatusOK {
			err = fmt.Errorf("HTTP %d/%s", resp.StatusCode, http.StatusText(resp.StatusCode))
		} else {
			err = fmt.Errorf("JSON decoding: %w", err)
		}
	}
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// Ping attempts to create a connection to the endpoint and returns an error
// if there is any.
func (c *Client) Ping() error {
	conn, err := net.DialTimeout("tcp", c.endpoint.Host, defaultDialTimeout)
	if err != nil {
		return err
	}
	_ = conn.Close()
	return nil
}
