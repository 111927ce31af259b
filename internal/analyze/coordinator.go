// Package analyze orchestrates slot identification across one screenshot:
// text-resolved fast path first, embedding-resolved slow path in small
// batches, with results merged back into input order.
package analyze

import (
	"context"
	"image"
	"log"
	"sync"

	"github.com/google/uuid"

	"inventory-scanner/internal/catalog"
	"inventory-scanner/internal/encoder"
	"inventory-scanner/internal/match"
)

// DefaultBatchSize bounds how many crops go to the encoder at once. Small
// batches keep latency and memory bounded and let the host update
// progressively.
const DefaultBatchSize = 4

// Item is one prepared slot: its crop and the OCR hint gathered for it.
type Item struct {
	Image image.Image
	Hint  string
}

// Result identifies one slot. A nil *Result in the output marks a
// per-region failure; siblings are unaffected.
type Result struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
	Qty   int     `json:"qty"`
}

// batchReply carries embeddings for one dispatched batch back to the
// coordinator, correlated by request id.
type batchReply struct {
	vectors [][]float64
	errs    []error
}

// Coordinator runs the hybrid matching pipeline over prepared slots.
type Coordinator struct {
	cat       *catalog.Catalog
	matcher   *match.Matcher
	svc       *encoder.Service
	batchSize int

	mu      sync.Mutex
	pending map[string]chan batchReply
}

// New creates a coordinator. batchSize <= 0 selects DefaultBatchSize.
func New(cat *catalog.Catalog, svc *encoder.Service, batchSize int) *Coordinator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Coordinator{
		cat:       cat,
		matcher:   match.New(cat, svc),
		svc:       svc,
		batchSize: batchSize,
		pending:   make(map[string]chan batchReply),
	}
}

// AnalyzeBatch identifies every prepared slot. The output always has the
// same length and order as the input regardless of how slow-path batches
// complete. Slots whose hint resolves by text never touch the encoder.
func (c *Coordinator) AnalyzeBatch(ctx context.Context, items []Item) []*Result {
	results := make([]*Result, len(items))
	shortlists := make([][]string, len(items))

	var slow []int
	for i, item := range items {
		narrowing := c.cat.Narrow(item.Hint)
		if narrowing.Match != nil {
			results[i] = &Result{
				Label: narrowing.Match.Label,
				Score: narrowing.Match.Score,
				Qty:   ParseQuantity(item.Hint),
			}
			continue
		}
		shortlists[i] = narrowing.Shortlist
		slow = append(slow, i)
	}

	if len(slow) == 0 {
		return results
	}
	log.Printf("Analyze: %d of %d slots text-resolved, %d need visual matching",
		len(items)-len(slow), len(items), len(slow))

	// Dispatch slow-path work in fixed-size batches. The underlying
	// encoder may complete them out of submission order; replies are
	// correlated by id, never by call order.
	type dispatched struct {
		id      string
		reply   chan batchReply
		indices []int
	}
	var batches []dispatched
	for start := 0; start < len(slow); start += c.batchSize {
		end := min(start+c.batchSize, len(slow))
		indices := slow[start:end]

		imgs := make([]image.Image, len(indices))
		for k, idx := range indices {
			imgs[k] = items[idx].Image
		}

		id := uuid.NewString()
		reply := c.register(id)
		go c.runBatch(ctx, id, imgs)
		batches = append(batches, dispatched{id: id, reply: reply, indices: indices})
	}

	for _, b := range batches {
		select {
		case reply := <-b.reply:
			c.release(b.id)
			for k, idx := range b.indices {
				if reply.errs[k] != nil {
					log.Printf("Analyze: slot %d failed: %v", idx, reply.errs[k])
					continue
				}
				ranked := c.matcher.Rank(reply.vectors[k], shortlists[idx])
				if len(ranked) == 0 {
					log.Printf("Analyze: slot %d has no scorable candidates", idx)
					continue
				}
				results[idx] = &Result{
					Label: ranked[0].Label,
					Score: ranked[0].Score,
					Qty:   ParseQuantity(items[idx].Hint),
				}
			}
		case <-ctx.Done():
			// A late reply to this id finds nobody waiting and is dropped.
			c.release(b.id)
			log.Printf("Analyze: batch %s abandoned: %v", b.id, ctx.Err())
		}
	}

	return results
}

// runBatch embeds one batch and delivers the reply if anyone still awaits
// the id. Superseded requests are simply discarded.
func (c *Coordinator) runBatch(ctx context.Context, id string, imgs []image.Image) {
	vectors, errs := c.svc.EmbedAll(ctx, imgs)

	c.mu.Lock()
	reply, ok := c.pending[id]
	c.mu.Unlock()
	if !ok {
		return
	}
	select {
	case reply <- batchReply{vectors: vectors, errs: errs}:
	default:
	}
}

func (c *Coordinator) register(id string) chan batchReply {
	reply := make(chan batchReply, 1)
	c.mu.Lock()
	c.pending[id] = reply
	c.mu.Unlock()
	return reply
}

func (c *Coordinator) release(id string) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
}
