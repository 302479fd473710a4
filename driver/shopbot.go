// Package driver provides sbp.Driver implementations: a real ShopBot
// controller reached over serial or TCP, and an in-memory mock for tests.
package driver

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/tarm/serial"

	"github.com/tjkluska/fabmo/comm"
	"github.com/tjkluska/fabmo/sbp"
)

// Terminator is the line terminator used on both directions of the ShopBot
// ASCII/status protocol.
const Terminator = byte('\n')

// Config describes how to reach a ShopBot controller.
type Config struct {
	Addr       string
	Serial     bool
	BaudRate   int
	DataBits   int
	StopBits   int
	Parity     string
	PoolSize   int
	IdleClose  time.Duration
	DialTimout time.Duration
}

// ShopBot is a sbp.Driver backed by a real controller connection, built the
// same way aerotech.Ensemble wraps comm.Pool: a small connection pool with
// backoff-guarded reconnection, plus a background reader that demultiplexes
// status lines to subscribers.
type ShopBot struct {
	pool    *comm.Pool
	timeout time.Duration

	mu          sync.Mutex
	subscribers map[int]chan sbp.StatusEvent
	nextSubID   int
	lastState   string

	stateCh chan string
}

// NewShopBot dials (lazily, via the pool) a ShopBot controller per cfg.
func NewShopBot(cfg Config) *ShopBot {
	var maker comm.CreationFunc
	if cfg.Serial {
		sc := &serial.Config{
			Name:        cfg.Addr,
			Baud:        cfg.BaudRate,
			ReadTimeout: cfg.DialTimout,
		}
		maker = comm.SerialConnMaker(sc)
	} else {
		maker = comm.BackingOffTCPConnMaker(cfg.Addr, cfg.DialTimout)
	}
	poolSize := cfg.PoolSize
	if poolSize < 1 {
		poolSize = 1
	}
	idle := cfg.IdleClose
	if idle <= 0 {
		idle = 30 * time.Second
	}
	sb := &ShopBot{
		pool:        comm.NewPool(poolSize, idle, maker),
		timeout:     3 * time.Second,
		subscribers: map[int]chan sbp.StatusEvent{},
		stateCh:     make(chan string, 8),
	}
	go sb.readStatusLoop()
	return sb
}

// RunSegment submits a newline-joined G-code segment (§6).
func (sb *ShopBot) RunSegment(text string) error {
	conn, err := sb.pool.Get()
	if err != nil {
		return err
	}
	wrap := comm.NewTimeout(conn, sb.timeout)
	term := comm.NewTerminator(wrap, Terminator, Terminator)
	_, err = fmt.Fprintf(term, "%s", text)
	sb.pool.ReturnWithError(conn, err)
	return err
}

// Get reads a single named parameter, e.g. "mpox" (§6).
func (sb *ShopBot) Get(key string) (string, error) {
	vals, err := sb.GetMulti([]string{key})
	if err != nil {
		return "", err
	}
	return vals[key], nil
}

// GetMulti reads several named parameters in one round trip (§6).
func (sb *ShopBot) GetMulti(keys []string) (map[string]string, error) {
	conn, err := sb.pool.Get()
	if err != nil {
		return nil, err
	}
	wrap := comm.NewTimeout(conn, sb.timeout)
	term := comm.NewTerminator(wrap, Terminator, Terminator)

	req := "GET " + strings.Join(keys, ",")
	if _, err := fmt.Fprintf(term, "%s", req); err != nil {
		sb.pool.ReturnWithError(conn, err)
		return nil, err
	}
	buf := make([]byte, 1024)
	n, err := term.Read(buf)
	sb.pool.ReturnWithError(conn, err)
	if err != nil {
		return nil, err
	}
	return parseKeyValues(string(buf[:n])), nil
}

// Set writes a single named parameter (§6).
func (sb *ShopBot) Set(key, value string) error {
	conn, err := sb.pool.Get()
	if err != nil {
		return err
	}
	wrap := comm.NewTimeout(conn, sb.timeout)
	term := comm.NewTerminator(wrap, Terminator, Terminator)
	_, err = fmt.Fprintf(term, "SET %s=%s", key, value)
	sb.pool.ReturnWithError(conn, err)
	return err
}

// AwaitState blocks until the controller reports state (§6). It has no
// timeout, and Close does not release it: the read loop never exits and
// stateCh is never closed.
func (sb *ShopBot) AwaitState(state string) error {
	for s := range sb.stateCh {
		if s == state {
			return nil
		}
	}
	return comm.ErrNotConnected
}

// Subscribe returns a channel of status events and an unsubscribe function
// (§6, §9 resolving the disconnect/removeListener ambiguity structurally:
// unsubscribing closes this specific channel, there is no event name to
// omit).
func (sb *ShopBot) Subscribe() (<-chan sbp.StatusEvent, func()) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	id := sb.nextSubID
	sb.nextSubID++
	ch := make(chan sbp.StatusEvent, 16)
	sb.subscribers[id] = ch
	return ch, func() {
		sb.mu.Lock()
		defer sb.mu.Unlock()
		if c, ok := sb.subscribers[id]; ok {
			delete(sb.subscribers, id)
			close(c)
		}
	}
}

// Close releases the connection pool. Outstanding subscriber channels are
// not closed by Close; callers must invoke their own unsubscribe functions.
func (sb *ShopBot) Close() {
	sb.pool.Close()
}

// readStatusLoop runs for the lifetime of the ShopBot, parsing status lines
// off a leased connection and fanning them out to subscribers and the
// AwaitState state channel. Modeled on comm.Pool.destroyTrash's
// run-forever-until-interrupted background goroutine shape.
func (sb *ShopBot) readStatusLoop() {
	for {
		conn, err := sb.pool.Get()
		if err != nil {
			time.Sleep(time.Second)
			continue
		}
		scanner := bufio.NewScanner(conn)
		for scanner.Scan() {
			ev, state, ok := parseStatusLine(scanner.Text())
			if !ok {
				continue
			}
			sb.mu.Lock()
			sb.lastState = state
			for _, ch := range sb.subscribers {
				select {
				case ch <- ev:
				default:
				}
			}
			sb.mu.Unlock()
			if state != "" {
				select {
				case sb.stateCh <- state:
				default:
				}
			}
		}
		sb.pool.ReturnWithError(conn, scanner.Err())
	}
}

// parseStatusLine parses a "STATUS x=1.0;y=2.0;line=5;state=running" line
// into a StatusEvent plus the bare state string (for the AwaitState fan-out).
func parseStatusLine(line string) (sbp.StatusEvent, string, bool) {
	if !strings.HasPrefix(line, "STATUS ") {
		return sbp.StatusEvent{}, "", false
	}
	kv := parseKeyValues(strings.TrimPrefix(line, "STATUS "))
	ev := sbp.StatusEvent{Pos: map[string]float64{}}
	for _, axis := range []string{"x", "y", "z", "a", "b", "c"} {
		if s, ok := kv[axis]; ok {
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				ev.Pos[axis] = f
			}
		}
	}
	if s, ok := kv["line"]; ok {
		if n, err := strconv.Atoi(s); err == nil {
			ev.Line = &n
		}
	}
	state := kv["state"]
	ev.State = state
	return ev, state, true
}

func parseKeyValues(s string) map[string]string {
	out := map[string]string{}
	for _, pair := range strings.Split(s, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			continue
		}
		out[parts[0]] = parts[1]
	}
	return out
}
