package schema

import (
	"fmt"
	"sort"
)

// ListWithinQuantity returns a rule requiring that, when both fields
// are present, the list's length does not exceed the quantity field.
func ListWithinQuantity(listField, quantityField string) Rule {
	return func(r *LoadedRequest) error {
		list := r.List(listField)
		if len(list) == 0 || !r.Has(quantityField) {
			return nil
		}
		quantity := r.Int(quantityField)
		if len(list) > quantity {
			return &InvalidArgumentCombo{
				Message: fmt.Sprintf("%s has %d entries, more than the %d requested by %s",
					listField, len(list), quantity, quantityField),
				Values: map[string]any{
					listField:     list,
					quantityField: quantity,
				},
			}
		}
		return nil
	}
}

// DisjointLists returns a rule requiring that two lists of comparable
// elements share no entries. A violation names the offending
// intersection.
func DisjointLists(fieldA, fieldB string) Rule {
	return func(r *LoadedRequest) error {
		listA := r.List(fieldA)
		listB := r.List(fieldB)
		if len(listA) == 0 || len(listB) == 0 {
			return nil
		}

		inA := make(map[any]struct{}, len(listA))
		for _, v := range listA {
			inA[v] = struct{}{}
		}

		var common []any
		seen := make(map[any]struct{})
		for _, v := range listB {
			if _, ok := inA[v]; !ok {
				continue
			}
			if _, dup := seen[v]; dup {
				continue
			}
			seen[v] = struct{}{}
			common = append(common, v)
		}

		if len(common) > 0 {
			names := make([]string, len(common))
			for i, v := range common {
				names[i] = fmt.Sprint(v)
			}
			sort.Strings(names)
			return &InvalidArgumentCombo{
				Message: fmt.Sprintf("%s and %s are not mutually exclusive; common entries %v",
					fieldA, fieldB, names),
				Values: map[string]any{
					fieldA: listA,
					fieldB: listB,
				},
			}
		}
		return nil
	}
}
