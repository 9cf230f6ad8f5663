package camera

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bbernstein/fgcboard/internal/models"
	"github.com/bbernstein/fgcboard/internal/timeutil"
	"github.com/bbernstein/fgcboard/pkg/http/client"
	"github.com/rs/zerolog/log"
)

const DefaultInterval = 10 * time.Second

// Image is one downloaded camera frame
type Image struct {
	Station     models.CameraStation
	URL         string
	ContentType string
	Data        []byte
	FetchedAt   time.Time
}

// Sink receives every frame that finishes downloading. Frames may arrive
// out of order when downloads overlap.
type Sink interface {
	Show(img Image) error
}

// Refresher downloads the selected station's camera image on a fixed
// interval. A tick never waits for the previous download.
type Refresher struct {
	httpClient client.Interface
	sink       Sink
	interval   time.Duration
	clock      timeutil.Clock

	mu       sync.Mutex
	selected models.CameraStation
	loads    sync.WaitGroup
}

func NewRefresher(httpClient client.Interface, sink Sink, interval time.Duration, clock timeutil.Clock) *Refresher {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if clock == nil {
		clock = timeutil.SystemClock{}
	}
	return &Refresher{
		httpClient: httpClient,
		sink:       sink,
		interval:   interval,
		clock:      clock,
	}
}

// Select switches the station and starts a download right away
func (r *Refresher) Select(ctx context.Context, st models.CameraStation) {
	r.mu.Lock()
	r.selected = st
	r.mu.Unlock()

	log.Info().Str("station", st.Name).Str("code", st.Code).Msg("Camera station selected")
	r.start(ctx)
}

func (r *Refresher) Selected() models.CameraStation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.selected
}

// Run ticks until ctx is done, then waits for in-flight downloads
func (r *Refresher) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	defer r.loads.Wait()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.start(ctx)
		}
	}
}

func (r *Refresher) start(ctx context.Context) {
	st := r.Selected()
	if st.ImageURL == "" {
		return
	}

	r.loads.Add(1)
	go func() {
		defer r.loads.Done()
		if err := r.load(ctx, st); err != nil {
			log.Warn().Err(err).Str("station", st.Name).Msg("Camera image load failed")
		}
	}()
}

func (r *Refresher) load(ctx context.Context, st models.CameraStation) error {
	now := r.clock.Now()
	imageURL := ImageURL(st, now)

	resp, err := r.httpClient.Get(ctx, imageURL)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", imageURL, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("fetching %s: status %d", imageURL, resp.StatusCode)
	}

	// A download for a station the user has since left is dropped
	if r.Selected().Code != st.Code {
		return nil
	}

	return r.sink.Show(Image{
		Station:     st,
		URL:         imageURL,
		ContentType: resp.ContentType,
		Data:        resp.Body,
		FetchedAt:   now,
	})
}
