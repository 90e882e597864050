// Package metrics exposes Prometheus instrumentation for the verification
// pipeline. Outcome label values are "ok", a stable failure code, or
// "internal_error" for unclassified failures.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Enrollments = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "idverify_enrollments_total",
		Help: "Document enrollment attempts by outcome.",
	}, []string{"outcome"})

	CredentialIssuances = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "idverify_credential_issuances_total",
		Help: "Credential issuance attempts by outcome.",
	}, []string{"outcome"})

	CredentialValidations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "idverify_credential_validations_total",
		Help: "Credential validation attempts by outcome.",
	}, []string{"outcome"})

	PipelineDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "idverify_pipeline_duration_seconds",
		Help:    "Wall time of verification pipeline operations.",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
	}, []string{"operation"})
)
