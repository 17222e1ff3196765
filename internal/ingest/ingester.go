package ingest

import (
	"context"
	"time"

	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"

	"pricefeed/internal/cache"
	"pricefeed/internal/format"
	"pricefeed/internal/ingest/binance"
	"pricefeed/internal/model"
	"pricefeed/internal/obs"
	"pricefeed/internal/symbol"
	"pricefeed/pkg/exception"
	"pricefeed/pkg/websocket"
)

// Option configures an Ingester.
type Option struct {
	Backoff     websocket.Backoff
	Scheduler   websocket.Scheduler
	DialTimeout time.Duration

	// QuoteAssets and DefaultQuote drive symbol normalisation.
	QuoteAssets  []string
	DefaultQuote string

	Metrics *obs.Metrics
	Now     func() time.Time
}

// Ingester keeps the price cache fed from the aggregate mini-ticker stream.
// Consumers only use Connect, Disconnect, IsConnected, GetPrice and FormatSummary.
type Ingester struct {
	client     *websocket.Client
	cache      *cache.PriceCache
	normalizer symbol.Normalizer
	metrics    *obs.Metrics
	now        func() time.Time
}

// New builds a disconnected ingester reading sessions from dialer.
func New(dialer websocket.Dialer, opt Option) (*Ingester, error) {
	if dialer == nil {
		return nil, exception.ErrWebSocketNilDialer
	}

	in := &Ingester{
		cache:      cache.New(),
		normalizer: symbol.NewNormalizer(opt.QuoteAssets, opt.DefaultQuote),
		metrics:    opt.Metrics,
		now:        opt.Now,
	}
	if in.metrics == nil {
		in.metrics = obs.NewMetrics()
	}
	if in.now == nil {
		in.now = time.Now
	}

	client, err := websocket.New(dialer, in.handle, websocket.Option{
		Backoff:              opt.Backoff,
		Scheduler:            opt.Scheduler,
		DialTimeout:          opt.DialTimeout,
		OnConnect:            in.onConnect,
		OnDisconnect:         in.onDisconnect,
		OnReconnectScheduled: in.onReconnectScheduled,
		OnExhausted:          in.onExhausted,
	})
	if err != nil {
		return nil, errors.Wrap(err, "new websocket client")
	}
	in.client = client

	return in, nil
}

// Connect opens the stream. A failed first attempt is returned but the
// reconnect policy keeps trying in the background.
func (in *Ingester) Connect(ctx context.Context) error {
	return in.client.Connect(ctx)
}

// Disconnect closes the stream and cancels any pending reconnect.
func (in *Ingester) Disconnect() {
	in.client.Disconnect()
}

func (in *Ingester) IsConnected() bool {
	return in.client.IsConnected()
}

func (in *Ingester) Status() websocket.Status {
	return in.client.Status()
}

// GetPrice resolves a user supplied symbol to its latest snapshot.
// Cached entries stay readable while the stream is down.
func (in *Ingester) GetPrice(input string) (model.PriceSnapshot, bool) {
	key := in.normalizer.Normalize(input)
	if len(key) == 0 {
		return model.PriceSnapshot{}, false
	}
	return in.cache.Get(key)
}

// FormatSummary renders the price summary of input for chat replies.
func (in *Ingester) FormatSummary(input string) string {
	if !in.IsConnected() {
		return format.Unavailable()
	}
	snapshot, ok := in.GetPrice(input)
	if !ok {
		return format.NotFound(input)
	}
	return format.Summary(snapshot)
}

// CachedSymbols returns the number of symbols held in the cache.
func (in *Ingester) CachedSymbols() int {
	return in.cache.Len()
}

func (in *Ingester) Metrics() *obs.Metrics {
	return in.metrics
}

func (in *Ingester) handle(_ websocket.MessageType, payload []byte) {
	start := time.Now()
	in.metrics.ObserveMessage()
	defer func() {
		if r := recover(); r != nil {
			in.metrics.IncBatchRejected()
			logs.Errorf("apply ticker batch panic, recovered: %+v", r)
		}
	}()

	batch, err := binance.DecodeBatch(payload, in.now())
	if err != nil {
		in.metrics.IncBatchRejected()
		logs.Errorf("drop ticker batch, err: %+v", err)
		return
	}

	in.cache.PutBatch(batch.Snapshots)
	in.metrics.AddRecords(len(batch.Snapshots), batch.Rejected)
	if batch.Rejected > 0 && len(batch.Errs) > 0 {
		logs.Errorf("skip %d ticker records, first err: %+v", batch.Rejected, batch.Errs[0])
	}
	in.metrics.ObserveApply(time.Since(start))
}

func (in *Ingester) onConnect() {
	in.metrics.IncConnect()
	logs.Info("binance ticker stream connected")
}

func (in *Ingester) onDisconnect(err error) {
	in.metrics.IncDisconnect()
	if err != nil {
		logs.Errorf("binance ticker stream closed, err: %+v", err)
		return
	}
	logs.Info("binance ticker stream disconnected")
}

func (in *Ingester) onReconnectScheduled(attempt int, delay time.Duration) {
	in.metrics.IncReconnectScheduled()
	logs.Infof("reconnect binance ticker stream in %s, attempt: %d", delay, attempt)
}

func (in *Ingester) onExhausted(attempts int) {
	in.metrics.IncExhausted()
	logs.Errorf("binance ticker stream gave up after %d reconnect attempts, serving cached prices only", attempts)
}
