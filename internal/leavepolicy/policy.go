// Package leavepolicy defines the closed set of leave types and the allowance
// table the ledger and the lifecycle engine are built with.
package leavepolicy

import (
	"fmt"
	"slices"
)

type Type string

const (
	Vacation  Type = "VACATION"
	Medical   Type = "MEDICAL"
	Birthday  Type = "BIRTHDAY"
	Special   Type = "SPECIAL"
	ExtraDays Type = "EXTRA_DAYS"
)

var allTypes = []Type{Vacation, Medical, Birthday, Special, ExtraDays}

// Types returns every leave type in a stable order.
func Types() []Type {
	return slices.Clone(allTypes)
}

func (t Type) Valid() bool {
	return slices.Contains(allTypes, t)
}

func Parse(v string) (Type, error) {
	t := Type(v)
	if !t.Valid() {
		return "", fmt.Errorf("unknown leave type %q", v)
	}
	return t, nil
}

type Rule struct {
	DefaultDays int
	Limited     bool
	Label       string
}

// Policy is immutable once built; lookups never mutate it.
type Policy struct {
	rules map[Type]Rule
}

// New builds a policy. Every leave type must have exactly one rule.
func New(rules map[Type]Rule) (Policy, error) {
	cp := make(map[Type]Rule, len(rules))
	for t, r := range rules {
		if !t.Valid() {
			return Policy{}, fmt.Errorf("unknown leave type %q", t)
		}
		if r.DefaultDays < 0 {
			return Policy{}, fmt.Errorf("negative default days for %s", t)
		}
		cp[t] = r
	}
	for _, t := range allTypes {
		if _, ok := cp[t]; !ok {
			return Policy{}, fmt.Errorf("missing rule for %s", t)
		}
	}
	return Policy{rules: cp}, nil
}

// DefaultPolicy is the company-wide allowance table. Only birthday and medical
// leave are capped by the balance.
func DefaultPolicy() Policy {
	p, err := New(map[Type]Rule{
		Vacation:  {DefaultDays: 21, Label: "Vacation"},
		Medical:   {DefaultDays: 180, Limited: true, Label: "Medical leave"},
		Birthday:  {DefaultDays: 1, Limited: true, Label: "Birthday leave"},
		Special:   {DefaultDays: 5, Label: "Special leave"},
		ExtraDays: {DefaultDays: 0, Label: "Extra days"},
	})
	if err != nil {
		panic(err)
	}
	return p
}

func (p Policy) DefaultDays(t Type) int { return p.rules[t].DefaultDays }

func (p Policy) IsLimited(t Type) bool { return p.rules[t].Limited }

func (p Policy) Label(t Type) string {
	if r, ok := p.rules[t]; ok && r.Label != "" {
		return r.Label
	}
	return string(t)
}
