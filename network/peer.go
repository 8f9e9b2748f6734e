package network

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/feltworks/feltpoker/domain/poker"
)

// Peer serves a sequencer over HTTP. The peer holding the sequencer rank
// runs one of these; every other peer talks to it through a Client.
type Peer struct {
	seq    *Sequencer
	server *http.Server
}

// NewPeer starts serving the sequencer on the listener. Close releases it.
func NewPeer(seq *Sequencer, l net.Listener) *Peer {
	p := &Peer{seq: seq}
	r := chi.NewRouter()
	r.Post("/v1/batches", p.handlePublish)
	r.Get("/v1/batches", p.handleFetch)
	p.server = &http.Server{Handler: r}
	go func() {
		if err := p.server.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			panic(err)
		}
	}()
	return p
}

// Close shuts the server down.
func (p *Peer) Close() error {
	return p.server.Shutdown(context.Background())
}

func (p *Peer) handlePublish(w http.ResponseWriter, r *http.Request) {
	var b Batch
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	// reject undecodable payloads before committing them to the order
	if _, err := b.Decode(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	seq := p.seq.Submit(b)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]uint64{"seq": seq})
}

func (p *Peer) handleFetch(w http.ResponseWriter, r *http.Request) {
	from := uint64(0)
	if q := r.URL.Query().Get("from"); q != "" {
		v, err := strconv.ParseUint(q, 10, 64)
		if err != nil {
			http.Error(w, "bad from", http.StatusBadRequest)
			return
		}
		from = v
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(p.seq.From(from))
}

// Client is the Transport over a remote peer's HTTP interface. Subscribe
// polls; the interval trades latency for chatter.
type Client struct {
	base     string
	http     *http.Client
	interval time.Duration
}

// NewClient builds a transport talking to the peer at base, e.g.
// "http://host:port".
func NewClient(base string) *Client {
	return &Client{
		base:     base,
		http:     &http.Client{Timeout: 10 * time.Second},
		interval: 200 * time.Millisecond,
	}
}

func (c *Client) Publish(ctx context.Context, b Batch) (uint64, error) {
	body, err := json.Marshal(b)
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/v1/batches", bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: publish: %v", poker.ErrTimeout, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: publish status %d", poker.ErrInvalidArgument, resp.StatusCode)
	}
	var out map[string]uint64
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("%w: publish response: %v", poker.ErrCorrupt, err)
	}
	return out["seq"], nil
}

func (c *Client) Subscribe(from uint64, handler func(Batch)) func() {
	done := make(chan struct{})
	go func() {
		next := from
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()
		for {
			batches, err := c.fetch(next)
			if err == nil {
				for _, b := range batches {
					handler(b)
					next = b.Seq
				}
			}
			select {
			case <-done:
				return
			case <-ticker.C:
			}
		}
	}()
	return func() { close(done) }
}

func (c *Client) fetch(from uint64) ([]Batch, error) {
	resp, err := c.http.Get(c.base + "/v1/batches?from=" + strconv.FormatUint(from, 10))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch status %d", resp.StatusCode)
	}
	var batches []Batch
	if err := json.NewDecoder(resp.Body).Decode(&batches); err != nil {
		return nil, err
	}
	return batches, nil
}
