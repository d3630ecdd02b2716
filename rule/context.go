// Package rule implements RuleCheckers (spec §4.2): the per-rule-family
// evaluators shared by every ServiceChecker. Each family follows the same
// shape — skip if not yet initialized where applicable, evaluate, post
// exactly one event.
package rule

import (
	"github.com/ftahirops/validatord/model"
)

// EventPoster is the subset of event.Bridge every rule checker needs.
// Declared locally so rule does not import event directly, keeping the
// dependency direction checker -> rule -> model/predicate/collector.
type EventPoster interface {
	Post(service *model.Service, kind model.EventKind, state model.State, action model.ActionRef, message string)
}
