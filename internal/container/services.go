package container

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/samber/do"
	"github.com/serroba/linkshorter/internal/barcode"
	"github.com/serroba/linkshorter/internal/blob"
	"github.com/serroba/linkshorter/internal/metrics"
	"github.com/serroba/linkshorter/internal/shortener"
	"go.uber.org/zap"
)

// MetricsPackage provides the *prometheus.Registry and the *metrics.Recorder registered on it.
func MetricsPackage(i *do.Injector) {
	do.Provide(i, func(_ *do.Injector) (*prometheus.Registry, error) {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)

		return reg, nil
	})

	do.Provide(i, func(i *do.Injector) (*metrics.Recorder, error) {
		return metrics.NewRecorder(do.MustInvoke[*prometheus.Registry](i)), nil
	})
}

// ServicePackage provides the *shortener.Service.
func ServicePackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*shortener.Service, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		return shortener.NewService(
			do.MustInvoke[shortener.Repository](i),
			opts.tokenLength(),
			shortener.WithLogger(logger.Named("shortener")),
			shortener.WithRecorder(do.MustInvoke[*metrics.Recorder](i)),
		), nil
	})
}

// BarcodePackage provides the blob store, the *barcode.Service and the *barcode.Sweeper.
func BarcodePackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*blob.FileStore, error) {
		return blob.NewFileStore(do.MustInvoke[*Options](i).BlobDir), nil
	})

	do.Provide(i, func(i *do.Injector) (*barcode.Service, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		template, err := barcode.ParseURLTemplate(opts.BarcodeTemplate())
		if err != nil {
			return nil, err
		}

		return barcode.NewService(
			do.MustInvoke[*shortener.Service](i),
			do.MustInvoke[barcode.Repository](i),
			barcode.NewQREncoder(opts.BarcodeSize),
			do.MustInvoke[*blob.FileStore](i),
			barcode.Config{URLTemplate: template, BasePath: opts.BarcodeBasePath},
			barcode.WithLogger(logger.Named("barcode")),
			barcode.WithRecorder(do.MustInvoke[*metrics.Recorder](i)),
		), nil
	})

	do.Provide(i, func(i *do.Injector) (*barcode.Sweeper, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		return barcode.NewSweeper(
			do.MustInvoke[*blob.FileStore](i),
			do.MustInvoke[barcode.Repository](i),
			opts.BarcodeBasePath,
			duration(opts.SweepGracePeriod),
			logger.Named("sweeper"),
			do.MustInvoke[*metrics.Recorder](i),
		), nil
	})
}
