// Package erecon implements single-source entity resolution: a data
// model of comparable fields, active learning against a user-supplied
// oracle, regularized weight fitting, blocking-predicate learning,
// pairwise scoring, and clustering into equivalence classes.
//
// Each pipeline stage lives in its own subpackage — model, strdist,
// tfidf, predicates, blocker, sample, active, feature, train, blocking,
// score, cluster, settings, trainfile, config, store, erecerr. This
// package holds no runtime code of its own, only the end-to-end
// acceptance tests exercising the full pipeline across package
// boundaries (erecon_test.go).
package erecon
