package feature

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	"gonum.org/v1/gonum/mat"
)

var (
	ErrFeatureLenMismatch = errors.New("feature length does not match set length")
	ErrUnknownFeature     = errors.New("unknown feature")
)

// Set stores feature data keyed by the string representation of each feature. Every feature
// has the same number of observations.
type Set struct {
	m      int
	set    map[string][]float64
	labels map[string]Feature
}

// NewSet creates an empty set for m observations
func NewSet(m int) *Set {
	return &Set{
		m:      m,
		set:    make(map[string][]float64),
		labels: make(map[string]Feature),
	}
}

// Len returns the number of features
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.set)
}

// Rows returns the number of observations per feature
func (s *Set) Rows() int {
	if s == nil {
		return 0
	}
	return s.m
}

// Set stores the feature data, replacing any existing data for the same feature
func (s *Set) Set(f Feature, data []float64) error {
	if len(data) != s.m {
		return fmt.Errorf("%s has %d observations, expected %d, %w", f, len(data), s.m, ErrFeatureLenMismatch)
	}
	s.set[f.String()] = data
	s.labels[f.String()] = f
	return nil
}

// Get returns the feature data if it exists
func (s *Set) Get(f Feature) ([]float64, bool) {
	data, exists := s.set[f.String()]
	return data, exists
}

// Del removes a feature from the set
func (s *Set) Del(f Feature) {
	delete(s.set, f.String())
	delete(s.labels, f.String())
}

// Update merges all features of the other set into this one
func (s *Set) Update(other *Set) error {
	if other == nil {
		return nil
	}
	for label, data := range other.set {
		if err := s.Set(other.labels[label], data); err != nil {
			return err
		}
	}
	return nil
}

// Labels returns all features sorted by their string representation
func (s *Set) Labels() []Feature {
	if s == nil {
		return nil
	}
	labels := make([]Feature, 0, len(s.labels))
	for _, f := range s.labels {
		labels = append(labels, f)
	}
	sort.Slice(labels, func(i, j int) bool {
		return labels[i].String() < labels[j].String()
	})
	return labels
}

// Constant returns the features whose values never change across the observations. These carry
// no information beyond the intercept.
func (s *Set) Constant() []Feature {
	var res []Feature
	for _, f := range s.Labels() {
		data := s.set[f.String()]
		if len(data) == 0 {
			res = append(res, f)
			continue
		}
		if slices.Min(data) == slices.Max(data) {
			res = append(res, f)
		}
	}
	return res
}

// Matrix returns an m x n matrix whose columns follow the order of the given labels
func (s *Set) Matrix(labels []Feature) (*mat.Dense, error) {
	n := len(labels)
	if s.m == 0 || n == 0 {
		return nil, fmt.Errorf("set has %d observations and %d requested features, %w", s.m, n, ErrFeatureLenMismatch)
	}
	x := mat.NewDense(s.m, n, nil)
	for j, label := range labels {
		data, exists := s.set[label.String()]
		if !exists {
			return nil, fmt.Errorf("%s, %w", label, ErrUnknownFeature)
		}
		x.SetCol(j, data)
	}
	return x, nil
}
