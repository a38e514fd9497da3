package rpcclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/websocket"

	"github.com/helios-labs/go-solana/pkg/crypto/keys"
	"github.com/helios-labs/go-solana/pkg/solrpc"
)

// WSClient is a websocket-enabled RPC client that can be used with
// appropriate servers. It's supposed to be faster than Client because it
// has a persistent connection to the server and at the same time it
// exposes some functionality that is only provided via websockets (like
// the subscription mechanism). The subscription surface is described in
// https://docs.solana.com/api/websocket.
type WSClient struct {
	Client
	// Notifications is a channel that is used to send events received from
	// the server. Client's code is supposed to be reading from this channel
	// if it wants to use subscription mechanism, failing to do so will cause
	// WSClient to block even regular requests.
	Notifications chan Notification

	ws        *websocket.Conn
	done      chan struct{}
	responses chan *solrpc.Response
	requests  chan *solrpc.Request
	shutdown  chan struct{}
}

// Notification is a subscription event pushed by the server.
type Notification struct {
	// Method is the event name, like accountNotification or slotNotification.
	Method string
	// Subscription is the id returned from the corresponding subscribe call.
	Subscription uint64
	// Result is the raw event payload.
	Result json.RawMessage
}

// requestResponse is a combined type for request and response since we can
// get any of them here.
type requestResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	RawID   json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Error   *solrpc.Error   `json:"error,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
}

// notificationParams is the object-shaped params field of server pushes.
type notificationParams struct {
	Subscription uint64          `json:"subscription"`
	Result       json.RawMessage `json:"result"`
}

const (
	// Message limit for receiving side.
	wsReadLimit = 10 * 1024 * 1024

	// Disconnection timeout.
	wsPongLimit = 60 * time.Second

	// Ping period for connection liveness check.
	wsPingPeriod = wsPongLimit / 2

	// Write deadline.
	wsWriteLimit = wsPingPeriod / 2
)

// NewWS returns a new WSClient ready to use (with established websocket
// connection). You need to use a websocket URL for it, unless Local is set
// it must be one of the cluster websocket endpoints.
func NewWS(ctx context.Context, endpoint string, opts Options) (*WSClient, error) {
	cl := new(Client)
	err := initClient(ctx, cl, endpoint, opts, clusterWSEndpoints)
	if err != nil {
		return nil, err
	}
	cl.cli = nil

	dialer := websocket.Dialer{HandshakeTimeout: cl.opts.DialTimeout}
	ws, _, err := dialer.Dial(endpoint, nil)
	if err != nil {
		return nil, err
	}
	wsc := &WSClient{
		Client:        *cl,
		Notifications: make(chan Notification),

		ws:        ws,
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		responses: make(chan *solrpc.Response),
		requests:  make(chan *solrpc.Request),
	}
	go wsc.wsReader()
	go wsc.wsWriter()
	wsc.requestF = wsc.makeWsRequest
	return wsc, nil
}

// Close closes connection to the remote side rendering this client instance
// unusable.
func (c *WSClient) Close() {
	// Closing shutdown channel sends a signal to wsWriter to break out of
	// the loop. In doing so it does ws.Close() closing the network
	// connection which in turn makes wsReader receive an err from
	// ws.ReadJSON() and also break out of the loop closing c.done channel
	// in its shutdown sequence.
	close(c.shutdown)
	<-c.done
}

func (c *WSClient) wsReader() {
	c.ws.SetReadLimit(wsReadLimit)
	c.ws.SetPongHandler(func(string) error { c.ws.SetReadDeadline(time.Now().Add(wsPongLimit)); return nil })
	for {
		rr := new(requestResponse)
		c.ws.SetReadDeadline(time.Now().Add(wsPongLimit))
		err := c.ws.ReadJSON(rr)
		if err != nil {
			// Timeout/connection loss/malformed response.
			break
		}
		if rr.RawID == nil && rr.Method != "" {
			var p notificationParams
			if err := json.Unmarshal(rr.Params, &p); err != nil {
				// Malformed notification.
				break
			}
			c.Notifications <- Notification{Method: rr.Method, Subscription: p.Subscription, Result: p.Result}
		} else if rr.RawID != nil && (rr.Error != nil || rr.Result != nil) {
			resp := new(solrpc.Response)
			resp.ID = rr.RawID
			resp.JSONRPC = rr.JSONRPC
			resp.Error = rr.Error
			resp.Result = rr.Result
			c.responses <- resp
		} else {
			// Malformed response, neither valid request, nor valid response.
			break
		}
	}
	close(c.done)
	close(c.responses)
	close(c.Notifications)
}

func (c *WSClient) wsWriter() {
	pingTicker := time.NewTicker(wsPingPeriod)
	defer c.ws.Close()
	defer pingTicker.Stop()
	for {
		select {
		case <-c.shutdown:
			return
		case <-c.done:
			return
		case req, ok := <-c.requests:
			if !ok {
				return
			}
			c.ws.SetWriteDeadline(time.Now().Add(c.opts.RequestTimeout))
			if err := c.ws.WriteJSON(req); err != nil {
				return
			}
		case <-pingTicker.C:
			c.ws.SetWriteDeadline(time.Now().Add(wsWriteLimit))
			if err := c.ws.WriteMessage(websocket.PingMessage, []byte{}); err != nil {
				return
			}
		}
	}
}

func (c *WSClient) makeWsRequest(r *solrpc.Request) (*solrpc.Response, error) {
	select {
	case <-c.done:
		return nil, errors.New("connection lost")
	case c.requests <- r:
	}
	select {
	case <-c.done:
		return nil, errors.New("connection lost")
	case resp := <-c.responses:
		// A nil response comes from the closed channel when the reader
		// shuts down concurrently with done.
		if resp == nil {
			return nil, errors.New("connection lost")
		}
		return resp, nil
	}
}

func (c *WSClient) performSubscription(method string, params []interface{}) (uint64, error) {
	resp, err := c.performRequest(method, params)
	if err != nil {
		return 0, err
	}
	if resp.Error != nil {
		return 0, resp.Error
	}
	var id uint64
	if err := json.Unmarshal(resp.Result, &id); err != nil {
		return 0, fmt.Errorf("subscription id decoding: %w", err)
	}
	return id, nil
}

func (c *WSClient) performUnsubscription(method string, id uint64) error {
	resp, err := c.performRequest(method, []interface{}{id})
	if err != nil {
		return err
	}
	if resp.Error != nil {
		return resp.Error
	}
	return nil
}

// AccountSubscribe subscribes to changes of the account of the given public
// key, returning the subscription id.
func (c *WSClient) AccountSubscribe(pk keys.PublicKey) (uint64, error) {
	return c.performSubscription("accountSubscribe", []interface{}{pk})
}

// AccountUnsubscribe removes an account change subscription.
func (c *WSClient) AccountUnsubscribe(id uint64) error {
	return c.performUnsubscription("accountUnsubscribe", id)
}

// SlotSubscribe subscribes to slot progress events, returning the
// subscription id.
func (c *WSClient) SlotSubscribe() (uint64, error) {
	return c.performSubscription("slotSubscribe", nil)
}

// SlotUnsubscribe removes a slot progress subscription.
func (c *WSClient) SlotUnsubscribe(id uint64) error {
	return c.performUnsubscription("slotUnsubscribe", id)
}

// SignatureSubscribe subscribes to the confirmation of the transaction with
// the given signature, returning the subscription id. The server drops the
// subscription on its own after the notification fires.
func (c *WSClient) SignatureSubscribe(signature string) (uint64, error) {
	return c.performSubscription("signatureSubscribe", []interface{}{signature})
}

// SignatureUnsubscribe removes a signature confirmation subscription.
func (c *WSClient) SignatureUnsubscribe(id uint64) error {
	return c.performUnsubscription("signatureUnsubscribe", id)
}

// logsFilter is the mentions form of the logsSubscribe filter.
type logsFilter struct {
	Mentions []keys.PublicKey `json:"mentions"`
}

// LogsSubscribe subscribes to transaction log events, returning the
// subscription id. Without arguments all non-vote transactions are
// reported, with them only transactions mentioning the given keys are.
func (c *WSClient) LogsSubscribe(mentions ...keys.PublicKey) (uint64, error) {
	params := []interface{}{"all"}
	if len(mentions) > 0 {
		params = []interface{}{logsFilter{Mentions: mentions}}
	}
	return c.performSubscription("logsSubscribe", params)
}

// LogsUnsubscribe removes a transaction log subscription.
func (c *WSClient) LogsUnsubscribe(id uint64) error {
	return c.performUnsubscription("logsUnsubscribe", id)
}
