package csvimport

import "smartechtool/api/models"

// arrayField is one accumulated sub-field of an array parameter, kept in row
// order until the tree is finalized.
type arrayField struct {
	name     string
	dataType string
}

// activityBuilder accumulates one activity during the single pass. Scalars
// and array fields are collected separately: every array base key collapses
// into a single synthesized item when the tree is assembled.
type activityBuilder struct {
	name        string
	scalarOrder []string
	scalars     map[string]models.Parameter
	arrayOrder  []string
	arrayFields map[string][]arrayField
}

// activityArena keeps activities in declaration order with a name lookup, so
// "the current activity" is an explicit invariant: always the last one
// created, regardless of which name a later row repeats.
type activityArena struct {
	order  []*activityBuilder
	byName map[string]int
}

func newActivityArena() *activityArena {
	return &activityArena{byName: make(map[string]int)}
}

// declare registers an activity name, appending a new builder only when the
// name has not been seen before.
func (a *activityArena) declare(name string) {
	if _, ok := a.byName[name]; ok {
		return
	}
	a.byName[name] = len(a.order)
	a.order = append(a.order, &activityBuilder{
		name:        name,
		scalars:     make(map[string]models.Parameter),
		arrayFields: make(map[string][]arrayField),
	})
}

// current returns the most recently created activity, or nil before any
// declaration.
func (a *activityArena) current() *activityBuilder {
	if len(a.order) == 0 {
		return nil
	}
	return a.order[len(a.order)-1]
}

// setScalar records a scalar parameter; a repeated key overwrites the earlier
// value but keeps its original position.
func (b *activityBuilder) setScalar(key string, value any, dataType models.ParamType) {
	if _, ok := b.scalars[key]; !ok {
		b.scalarOrder = append(b.scalarOrder, key)
	}
	b.scalars[key] = models.Parameter{Key: key, Type: dataType, Value: value}
}

// addArrayField accumulates one sub-field under an array base key.
func (b *activityBuilder) addArrayField(base, field, dataType string) {
	if _, ok := b.arrayFields[base]; !ok {
		b.arrayOrder = append(b.arrayOrder, base)
	}
	b.arrayFields[base] = append(b.arrayFields[base], arrayField{name: field, dataType: dataType})
}

// finalize assembles the finished activity list: scalars in insertion order,
// then each array base as one array parameter holding a single synthesized
// item with all of its accumulated sub-fields.
func (a *activityArena) finalize() []models.Activity {
	activities := make([]models.Activity, 0, len(a.order))

	for _, b := range a.order {
		params := make([]models.Parameter, 0, len(b.scalarOrder)+len(b.arrayOrder))

		for _, key := range b.scalarOrder {
			params = append(params, b.scalars[key])
		}

		for _, base := range b.arrayOrder {
			item := models.ArrayItem{}
			for _, f := range b.arrayFields[base] {
				item[f.name] = models.ItemField{
					Value: SampleValue(f.dataType),
					Type:  MapDataType(f.dataType),
				}
			}
			params = append(params, models.Parameter{
				Key:   base,
				Type:  models.TypeArray,
				Items: []models.ArrayItem{item},
			})
		}

		activities = append(activities, models.Activity{Name: b.name, Params: params})
	}

	return activities
}
