// Package domain contains the core data types shared across the
// application: the four raw campaign tables (influencers, posts,
// tracking, payouts) and the derived metric rows produced by the
// analytics engine. Types here carry no behavior beyond small
// accessors; all computation lives in internal/analytics.
package domain
