package card

import (
	"strconv"

	"golang.org/x/sync/singleflight"

	"github.com/yanizio/reing/internal/cache"
	"github.com/yanizio/reing/internal/metrics"
	"github.com/yanizio/reing/internal/qa"
)

// Cards caches rendered JPEGs by question id.  A question body never
// changes, so entries never go stale; concurrent misses for the same id
// share one render.
type Cards struct {
	r     *Renderer
	lru   *cache.LRU[int64, []byte]
	group singleflight.Group
}

// NewCards wraps r with an LRU of the given size.
func NewCards(r *Renderer, size int) *Cards {
	return &Cards{r: r, lru: cache.New[int64, []byte](size)}
}

// For returns the card for q.  The returned slice is shared; do not
// modify it.
func (c *Cards) For(q qa.Question) ([]byte, error) {
	if b, ok := c.lru.Get(q.ID); ok {
		metrics.CardRenders.WithLabelValues("hit").Inc()
		return b, nil
	}
	metrics.CardRenders.WithLabelValues("miss").Inc()

	v, err, _ := c.group.Do(strconv.FormatInt(q.ID, 10), func() (any, error) {
		b, err := c.r.JPEG(q.Body)
		if err != nil {
			return nil, err
		}
		c.lru.Add(q.ID, b)
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}
