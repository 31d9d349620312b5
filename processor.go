package virtualize

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cybergodev/virtualize/dom"
	"github.com/cybergodev/virtualize/internal"
	"github.com/cybergodev/virtualize/vnode"
)

// Default configuration values.
const (
	DefaultMaxInputSize    = 50 * 1024 * 1024 // 50MB
	DefaultMaxCacheEntries = 1000             // 1000 entries
	DefaultWorkerPoolSize  = 4                // 4 workers
	DefaultCacheTTL        = time.Hour        // 1 hour
	DefaultMaxDepth        = 500              // 500 levels
)

// Processor converts markup with input limits, a conversion cache and batch
// support. It is safe for concurrent use.
type Processor struct {
	config *Config
	logger *slog.Logger
	cache  *internal.Cache[Result]
	closed atomic.Bool
	stats  struct {
		totalProcessed   atomic.Int64
		nodesCreated     atomic.Int64
		cacheHits        atomic.Int64
		cacheMisses      atomic.Int64
		errorCount       atomic.Int64
		totalProcessTime atomic.Int64
	}
}

// Config holds processor configuration.
type Config struct {
	MaxInputSize       int
	MaxCacheEntries    int
	CacheTTL           time.Duration
	WorkerPoolSize     int
	EnableSanitization bool
	MaxDepth           int
	Logger             *slog.Logger
}

// DefaultConfig returns default configuration.
func DefaultConfig() Config {
	return Config{
		MaxInputSize:       DefaultMaxInputSize,
		MaxCacheEntries:    DefaultMaxCacheEntries,
		CacheTTL:           DefaultCacheTTL,
		WorkerPoolSize:     DefaultWorkerPoolSize,
		EnableSanitization: false,
		MaxDepth:           DefaultMaxDepth,
	}
}

func validateConfig(c Config) error {
	switch {
	case c.MaxInputSize <= 0:
		return fmt.Errorf("%w: MaxInputSize must be positive", ErrInvalidConfig)
	case c.MaxCacheEntries < 0:
		return fmt.Errorf("%w: MaxCacheEntries cannot be negative", ErrInvalidConfig)
	case c.CacheTTL < 0:
		return fmt.Errorf("%w: CacheTTL cannot be negative", ErrInvalidConfig)
	case c.WorkerPoolSize <= 0:
		return fmt.Errorf("%w: WorkerPoolSize must be positive", ErrInvalidConfig)
	case c.MaxDepth <= 0:
		return fmt.Errorf("%w: MaxDepth must be positive", ErrInvalidConfig)
	}
	return nil
}

// Statistics contains processor statistics.
type Statistics struct {
	TotalProcessed     int64
	NodesCreated       int64
	CacheHits          int64
	CacheMisses        int64
	ErrorCount         int64
	CacheEntries       int
	AverageProcessTime time.Duration
}

// New creates a processor with the given configuration.
func New(config Config) (*Processor, error) {
	if err := validateConfig(config); err != nil {
		return nil, err
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		config: &config,
		logger: logger,
		cache:  internal.NewCache[Result](config.MaxCacheEntries, config.CacheTTL),
	}, nil
}

// NewWithDefaults creates a processor with default configuration.
func NewWithDefaults() *Processor {
	p, _ := New(DefaultConfig())
	return p
}

func (p *Processor) options(hooks Hooks) Options {
	return Options{
		Hooks:    hooks,
		MaxDepth: p.config.MaxDepth,
		Sanitize: p.config.EnableSanitization,
	}
}

// ConvertString converts markup. Results are cached by content; every call,
// cache hits included, returns a tree of its own, and the create hook runs
// over that tree in the order a fresh conversion would report it.
func (p *Processor) ConvertString(markup string, hooks Hooks) (Result, error) {
	if p.closed.Load() {
		return Result{}, ErrProcessorClosed
	}
	if len(markup) > p.config.MaxInputSize {
		p.stats.errorCount.Add(1)
		return Result{}, fmt.Errorf("%w: %d bytes, max %d", ErrInputTooLarge, len(markup), p.config.MaxInputSize)
	}

	start := time.Now()
	key := p.generateCacheKey(markup)
	if cached, ok := p.cache.Get(key); ok {
		p.stats.cacheHits.Add(1)
		p.logger.Debug("virtualize cache hit", "key", key[:12], "nodes", cached.Created())
		res := cached.clone()
		if err := dispatchCreate(createdLog(res.Nodes()), hooks.Create); err != nil {
			p.stats.errorCount.Add(1)
			return Result{}, err
		}
		p.record(res, nil, start)
		return res, nil
	}
	p.stats.cacheMisses.Add(1)

	// The tree is cached before hooks run.
	res, err := p.convert(StringInput(markup), Hooks{})
	if err != nil {
		return Result{}, err
	}
	p.cache.Set(key, res.clone())
	if err := dispatchCreate(createdLog(res.Nodes()), hooks.Create); err != nil {
		p.stats.errorCount.Add(1)
		return Result{}, err
	}
	return res, nil
}

// ConvertNode converts a live node. Live conversions are never cached.
func (p *Processor) ConvertNode(n dom.Node, hooks Hooks) (Result, error) {
	if p.closed.Load() {
		return Result{}, ErrProcessorClosed
	}
	return p.convert(NodeInput{Node: n}, hooks)
}

// ConvertBytes decodes data to UTF-8 and converts it. charset forces the
// source encoding; when empty it is detected from a BOM or meta declaration.
func (p *Processor) ConvertBytes(data []byte, charset string, hooks Hooks) (Result, error) {
	if p.closed.Load() {
		return Result{}, ErrProcessorClosed
	}
	text, err := p.decode(data, charset)
	if err != nil {
		return Result{}, err
	}
	return p.ConvertString(text, hooks)
}

func (p *Processor) decode(data []byte, charset string) (string, error) {
	if len(data) > p.config.MaxInputSize {
		p.stats.errorCount.Add(1)
		return "", fmt.Errorf("%w: %d bytes, max %d", ErrInputTooLarge, len(data), p.config.MaxInputSize)
	}
	text, used, err := internal.DecodeToUTF8(data, charset)
	if err != nil {
		p.stats.errorCount.Add(1)
		return "", fmt.Errorf("%w: %w", ErrEncoding, err)
	}
	p.logger.Debug("virtualize decoded input", "charset", used, "bytes", len(data))
	return text, nil
}

// ConvertFile reads and converts a file, detecting its encoding.
func (p *Processor) ConvertFile(filePath string, hooks Hooks) (Result, error) {
	if p.closed.Load() {
		return Result{}, ErrProcessorClosed
	}
	data, err := p.readFile(filePath)
	if err != nil {
		p.stats.errorCount.Add(1)
		return Result{}, err
	}
	return p.ConvertBytes(data, "", hooks)
}

func (p *Processor) readFile(filePath string) ([]byte, error) {
	if filePath == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidFilePath)
	}
	info, err := os.Stat(filepath.Clean(filePath))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, filePath)
		}
		return nil, fmt.Errorf("stat %q: %w", filePath, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrInvalidFilePath, filePath)
	}
	if info.Size() > int64(p.config.MaxInputSize) {
		return nil, fmt.Errorf("%w: %s is %d bytes, max %d", ErrInputTooLarge, filePath, info.Size(), p.config.MaxInputSize)
	}
	data, err := os.ReadFile(filepath.Clean(filePath))
	if err != nil {
		return nil, fmt.Errorf("read file %q: %w", filePath, err)
	}
	return data, nil
}

// ConvertMarkdown renders Markdown to HTML and converts the result.
func (p *Processor) ConvertMarkdown(src []byte, hooks Hooks) (Result, error) {
	if p.closed.Load() {
		return Result{}, ErrProcessorClosed
	}
	if len(src) > p.config.MaxInputSize {
		p.stats.errorCount.Add(1)
		return Result{}, fmt.Errorf("%w: %d bytes, max %d", ErrInputTooLarge, len(src), p.config.MaxInputSize)
	}
	markup, err := internal.RenderMarkdown(src)
	if err != nil {
		p.stats.errorCount.Add(1)
		return Result{}, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return p.ConvertString(markup, hooks)
}

// Select converts the elements of doc matching selector.
func (p *Processor) Select(doc *dom.HTMLDocument, selector string, hooks Hooks) (Result, error) {
	if p.closed.Load() {
		return Result{}, ErrProcessorClosed
	}
	start := time.Now()
	res, err := ConvertSelection(doc, selector, p.options(hooks))
	p.record(res, err, start)
	return res, err
}

// SelectBytes decodes data as a full document and converts the elements
// matching selector.
func (p *Processor) SelectBytes(data []byte, charset, selector string, hooks Hooks) (Result, error) {
	if p.closed.Load() {
		return Result{}, ErrProcessorClosed
	}
	text, err := p.decode(data, charset)
	if err != nil {
		return Result{}, err
	}
	doc, err := dom.ParseString(text)
	if err != nil {
		p.stats.errorCount.Add(1)
		return Result{}, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return p.Select(doc, selector, hooks)
}

// ConvertBatch converts several markup strings concurrently. Results keep the
// order of the input; the create hook may be called from several goroutines.
func (p *Processor) ConvertBatch(markups []string, hooks Hooks) ([]Result, error) {
	if p.closed.Load() {
		return nil, ErrProcessorClosed
	}
	return p.batch(len(markups), nil, func(i int) (Result, error) {
		return p.ConvertString(markups[i], hooks)
	})
}

// ConvertBatchFiles converts several files concurrently.
func (p *Processor) ConvertBatchFiles(filePaths []string, hooks Hooks) ([]Result, error) {
	if p.closed.Load() {
		return nil, ErrProcessorClosed
	}
	return p.batch(len(filePaths), filePaths, func(i int) (Result, error) {
		return p.ConvertFile(filePaths[i], hooks)
	})
}

func (p *Processor) batch(n int, names []string, convert func(int) (Result, error)) ([]Result, error) {
	if n == 0 {
		return []Result{}, nil
	}

	results := make([]Result, n)
	errs := make([]error, n)
	sem := make(chan struct{}, p.config.WorkerPoolSize)
	var wg sync.WaitGroup

	for i := range n {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			results[idx], errs[idx] = convert(idx)
			if errs[idx] != nil {
				p.logger.Warn("virtualize batch item failed", "index", idx, "error", errs[idx])
			}
		}(i)
	}

	wg.Wait()
	return collectResults(results, errs, names)
}

func collectResults(results []Result, errs []error, names []string) ([]Result, error) {
	var firstErr error
	successCount := 0
	failCount := 0

	for i, err := range errs {
		if err != nil {
			failCount++
			if firstErr == nil {
				if names != nil {
					firstErr = fmt.Errorf("%s: %w", names[i], err)
				} else {
					firstErr = fmt.Errorf("item %d: %w", i, err)
				}
			}
		} else {
			successCount++
		}
	}

	switch {
	case successCount == 0:
		return results, fmt.Errorf("all %d items failed: %w", len(results), firstErr)
	case failCount > 0:
		return results, fmt.Errorf("partial failure (%d/%d succeeded): %w", successCount, len(results), firstErr)
	default:
		return results, nil
	}
}

func (p *Processor) convert(in Input, hooks Hooks) (Result, error) {
	start := time.Now()
	res, err := Convert(in, p.options(hooks))
	p.record(res, err, start)
	return res, err
}

func (p *Processor) record(res Result, err error, start time.Time) {
	if err != nil {
		p.stats.errorCount.Add(1)
		return
	}
	p.stats.totalProcessed.Add(1)
	p.stats.nodesCreated.Add(int64(res.Created()))
	p.stats.totalProcessTime.Add(int64(time.Since(start)))
}

// GetStatistics returns current statistics.
func (p *Processor) GetStatistics() Statistics {
	totalProcessed := p.stats.totalProcessed.Load()
	totalTime := time.Duration(p.stats.totalProcessTime.Load())
	var avgTime time.Duration
	if totalProcessed > 0 {
		avgTime = totalTime / time.Duration(totalProcessed)
	}
	return Statistics{
		TotalProcessed:     totalProcessed,
		NodesCreated:       p.stats.nodesCreated.Load(),
		CacheHits:          p.stats.cacheHits.Load(),
		CacheMisses:        p.stats.cacheMisses.Load(),
		ErrorCount:         p.stats.errorCount.Load(),
		CacheEntries:       p.cache.Len(),
		AverageProcessTime: avgTime,
	}
}

// ClearCache clears the conversion cache.
func (p *Processor) ClearCache() {
	p.cache.Clear()
}

// Close releases resources. Further calls return ErrProcessorClosed.
func (p *Processor) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	p.cache.Clear()
	return nil
}

func (p *Processor) generateCacheKey(content string) string {
	h := sha256.New()
	var flags byte
	if p.config.EnableSanitization {
		flags |= 1 << 0
	}
	h.Write([]byte{flags})
	var depthBuf [8]byte
	binary.LittleEndian.PutUint64(depthBuf[:], uint64(p.config.MaxDepth))
	h.Write(depthBuf[:])
	io.WriteString(h, content)

	var buf [sha256.Size]byte
	return hex.EncodeToString(h.Sum(buf[:0]))
}

// createdLog lists every node under roots in creation order.
func createdLog(roots []*vnode.VNode) []*vnode.VNode {
	var out []*vnode.VNode
	for _, r := range roots {
		_ = r.Walk(func(n *vnode.VNode) error {
			out = append(out, n)
			return nil
		})
	}
	return out
}
