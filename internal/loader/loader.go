// Package loader fetches the tabular dataset and the region geometry.
package loader

import (
	"context"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"linkmap/internal/crossfilter"
	"linkmap/internal/geom"
)

// Options configures Load.
type Options struct {
	Records  string
	Features string
	Timeout  time.Duration
	Client   *http.Client
}

// Result holds both parsed collections.
type Result struct {
	Records  []crossfilter.Record
	Features []geom.Feature
}

// Load fetches records and features concurrently. Either failure aborts the
// whole load and cancels the other fetch; nothing partial is returned.
func Load(ctx context.Context, opts Options) (*Result, error) {
	if opts.Client == nil {
		opts.Client = http.DefaultClient
	}
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	log := zap.L().With(zap.String("component", "loader"))
	start := time.Now()

	var res Result
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		records, err := loadRecords(gctx, opts.Client, opts.Records)
		if err != nil {
			return err
		}
		res.Records = records
		return nil
	})
	g.Go(func() error {
		features, err := loadFeatures(gctx, opts.Client, opts.Features)
		if err != nil {
			return err
		}
		res.Features = features
		return nil
	})
	if err := g.Wait(); err != nil {
		log.Error("load failed", zap.Error(err))
		return nil, err
	}

	log.Info("data loaded",
		zap.Int("records", len(res.Records)),
		zap.Int("features", len(res.Features)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return &res, nil
}

func loadRecords(ctx context.Context, client *http.Client, src string) ([]crossfilter.Record, error) {
	rc, err := open(ctx, client, src)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	records, err := DecodeRecords(rc)
	if err != nil {
		return nil, eris.Wrapf(err, "loader: records from %s", src)
	}
	return records, nil
}

func loadFeatures(ctx context.Context, client *http.Client, src string) ([]geom.Feature, error) {
	if strings.EqualFold(path.Ext(src), ".shp") {
		if isURL(src) {
			return nil, eris.Errorf("loader: shapefiles must be local, got %s", src)
		}
		return geom.LoadShapefile(src)
	}
	rc, err := open(ctx, client, src)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	features, err := geom.DecodeGeoJSON(rc)
	if err != nil {
		return nil, eris.Wrapf(err, "loader: features from %s", src)
	}
	return features, nil
}
