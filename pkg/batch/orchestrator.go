// Package batch drives a sequence of swap attempts for one wallet.
package batch

import (
	"context"
	"errors"
	"math/big"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"

	"euclid-swap/pkg/chain"
	"euclid-swap/pkg/events"
	"euclid-swap/pkg/pipeline"
	"euclid-swap/pkg/ratelimit"
	"euclid-swap/pkg/swap"
	"euclid-swap/pkg/types"
)

const (
	DefaultMinDelay = 15 * time.Second
	DefaultMaxDelay = 25 * time.Second
)

// Quoter resolves quotes and calldata
type Quoter interface {
	ResolveQuote(ctx context.Context, req *types.SwapRequest) (*types.Quote, error)
	BuildCalldata(ctx context.Context, req *types.SwapRequest, quote *types.Quote) ([]byte, error)
}

// Submitter puts calldata on chain
type Submitter interface {
	Submit(ctx context.Context, req *types.SwapRequest, calldata []byte) (*types.TxResult, error)
}

// Tracker reports confirmed transactions
type Tracker interface {
	Report(ctx context.Context, hash common.Hash, wallet common.Address) error
}

// Request describes one batch
type Request struct {
	Mode        types.Mode
	AmountIn    *big.Int
	Count       int
	Sender      common.Address
	SlippageBps int
}

// Report is the tally of a finished batch
type Report struct {
	BatchID   string
	Succeeded int
	Failed    int // mined but reverted
	Skipped   int
	Errored   int
	Results   []types.TxResult
}

type outcome int

const (
	outcomeSkipped outcome = iota
	outcomeErrored
	outcomeFailed
	outcomeSucceeded
)

// skip errors abort only the current attempt and are reported without the
// generic "Error during transaction" prefix
var skipErrors = []error{
	swap.ErrInvalidAmountOut,
	swap.ErrNoQuoteMeta,
	swap.ErrMissingCalldata,
	swap.ErrSenderMismatch,
	pipeline.ErrSimulationFailed,
}

// Orchestrator runs attempts sequentially and owns the batch state
type Orchestrator struct {
	id          string
	quoter      Quoter
	submitter   Submitter
	tracker     Tracker
	log         *events.Logger
	sleep       ratelimit.Sleeper
	randN       func(n int64) int64
	minDelay    time.Duration
	maxDelay    time.Duration
	explorerURL string

	mu     sync.Mutex
	state  types.BatchState
	window *Window
}

// Option configures an Orchestrator
type Option func(*Orchestrator)

// WithTracker reports every confirmed transaction to t
func WithTracker(t Tracker) Option {
	return func(o *Orchestrator) {
		o.tracker = t
	}
}

// WithDelays sets the bounds of the random pause between attempts
func WithDelays(minDelay, maxDelay time.Duration) Option {
	return func(o *Orchestrator) {
		if minDelay >= 0 && maxDelay >= minDelay {
			o.minDelay = minDelay
			o.maxDelay = maxDelay
		}
	}
}

// WithSleeper replaces the wait function
func WithSleeper(s ratelimit.Sleeper) Option {
	return func(o *Orchestrator) {
		o.sleep = s
	}
}

// WithRand replaces the random source; randN must return a value in [0, n)
func WithRand(randN func(n int64) int64) Option {
	return func(o *Orchestrator) {
		o.randN = randN
	}
}

// WithExplorerURL sets the block explorer base used in transaction links
func WithExplorerURL(url string) Option {
	return func(o *Orchestrator) {
		o.explorerURL = strings.TrimRight(url, "/")
	}
}

// New creates an orchestrator with a fresh batch id
func New(quoter Quoter, submitter Submitter, log *events.Logger, opts ...Option) *Orchestrator {
	id := uuid.NewString()
	o := &Orchestrator{
		id:          id,
		quoter:      quoter,
		submitter:   submitter,
		log:         log.With("batch", id),
		sleep:       ratelimit.Sleep,
		randN:       rand.Int64N,
		minDelay:    DefaultMinDelay,
		maxDelay:    DefaultMaxDelay,
		explorerURL: "https://sepolia.arbiscan.io",
		window:      NewWindow(WindowSize),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// ID returns the batch id attached to every event
func (o *Orchestrator) ID() string {
	return o.id
}

// Snapshot returns a copy of the batch state. Safe to call concurrently with Run.
func (o *Orchestrator) Snapshot() types.BatchState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return types.BatchState{
		Total:         o.state.Total,
		Completed:     o.state.Completed,
		TxCountSeries: o.window.Values(),
	}
}

// ExplorerLink returns the explorer page of a transaction
func (o *Orchestrator) ExplorerLink(hash common.Hash) string {
	return o.explorerURL + "/tx/" + hash.Hex()
}

// Run executes req.Count attempts. Attempt errors are logged and never stop
// the batch; only context cancellation does.
func (o *Orchestrator) Run(ctx context.Context, req Request) (*Report, error) {
	o.mu.Lock()
	o.state.Total = req.Count
	o.state.Completed = 0
	o.mu.Unlock()

	report := &Report{BatchID: o.id}

	for i := 0; i < req.Count; i++ {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		sr := &types.SwapRequest{
			Kind:        req.Mode.KindFor(i),
			AmountIn:    req.AmountIn,
			Sender:      req.Sender,
			Target:      req.Sender,
			SlippageBps: req.SlippageBps,
		}
		log := o.log.With("attempt", i+1)
		log.Loading("Transaction %d/%d (%s):", i+1, req.Count, sr.Kind.Description())

		res, out := o.attempt(ctx, log, sr)
		switch out {
		case outcomeSucceeded:
			report.Succeeded++
		case outcomeFailed:
			report.Failed++
		case outcomeSkipped:
			report.Skipped++
		default:
			report.Errored++
		}
		if res != nil {
			report.Results = append(report.Results, *res)
		}
		o.advance()

		if ctx.Err() != nil {
			return report, ctx.Err()
		}

		// only attempts that reached a receipt pause before the next one
		if (out == outcomeSucceeded || out == outcomeFailed) && i < req.Count-1 {
			if err := o.pause(ctx, log); err != nil {
				return report, err
			}
		}
	}

	o.log.Success("All transactions completed!")
	return report, nil
}

func (o *Orchestrator) attempt(ctx context.Context, log *events.Logger, req *types.SwapRequest) (*types.TxResult, outcome) {
	log.Step("Fetching swap quote for amount_out...")
	quote, err := o.quoter.ResolveQuote(ctx, req)
	if err != nil {
		return nil, o.reportError(log, err)
	}
	log.Info("Quote received")
	if quote.Fallback {
		log.Warn("Quote carried no route meta. Using default amount_out %s for %s", quote.AmountOut, req.Kind)
	}

	log.Step("Building swap transaction...")
	calldata, err := o.quoter.BuildCalldata(ctx, req, quote)
	if err != nil {
		return nil, o.reportError(log, err)
	}
	log.Info("Swap response received")

	log.Loading("Executing swap transaction...")
	res, err := o.submitter.Submit(ctx, req, calldata)
	if err != nil {
		return nil, o.reportError(log, err)
	}
	if !res.Success {
		return res, outcomeFailed
	}

	o.mu.Lock()
	o.window.Push(1)
	o.mu.Unlock()

	if o.tracker != nil {
		if err := o.tracker.Report(ctx, res.Hash, req.Sender); err != nil {
			log.Warn("Tracking failed: %v", err)
		} else {
			log.Success("Transaction tracked with Euclid")
		}
	}
	log.Step("View transaction: %s", o.ExplorerLink(res.Hash))
	return res, outcomeSucceeded
}

func (o *Orchestrator) reportError(log *events.Logger, err error) outcome {
	for _, target := range skipErrors {
		if errors.Is(err, target) {
			log.Error("%v. Skipping transaction.", err)
			return outcomeSkipped
		}
	}

	log.Error("Error during transaction: %v", err)
	if reason := chain.RevertReason(err); reason != "" {
		log.Error("Revert reason: %s", reason)
	}
	return outcomeErrored
}

func (o *Orchestrator) advance() {
	o.mu.Lock()
	o.state.Completed++
	completed, total := o.state.Completed, o.state.Total
	o.mu.Unlock()

	o.log.Progress(completed, total)
}

// nextDelay draws from [minDelay, maxDelay) at millisecond granularity
func (o *Orchestrator) nextDelay() time.Duration {
	span := (o.maxDelay - o.minDelay).Milliseconds()
	if span <= 0 {
		return o.minDelay
	}
	return o.minDelay + time.Duration(o.randN(span))*time.Millisecond
}

func (o *Orchestrator) pause(ctx context.Context, log *events.Logger) error {
	d := o.nextDelay()
	log.Loading("Waiting %s seconds before next transaction...", strconv.FormatFloat(d.Seconds(), 'f', -1, 64))
	return o.sleep(ctx, d)
}
