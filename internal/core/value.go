package core

import (
	"fmt"
	"reflect"
	"sort"
)

const (
	KindSimple PayloadKind = iota
	KindFX
	KindOption
	KindLoan
)

type (
	PayloadKind int

	// Payload is the variant part of a Value: Simple, FX, Option or Loan.
	Payload interface {
		Kind() PayloadKind
	}

	// Simple is a signed amount in minor currency units.
	Simple struct {
		Amount int64
	}

	FXAmount struct {
		Value    float64 `json:"value"`
		Currency string  `json:"currency"`
	}

	// FX is a basket of foreign currency amounts, converted through the entry's currency rates.
	FX []FXAmount

	// Option is a grant of stock options. Prices are in minor units of the grant currency.
	Option struct {
		Units       int64   `json:"units"`
		StrikePrice float64 `json:"strikePrice"`
		MarketPrice float64 `json:"marketPrice"`
		Vested      int64   `json:"vested"`
	}

	// Loan is an amortising loan. Principal is the outstanding amount, stored as a
	// negative simple value.
	Loan struct {
		Principal         int64   `json:"principal"`
		PaymentsRemaining int64   `json:"paymentsRemaining"`
		Rate              float64 `json:"rate"`
		Paid              *int64  `json:"paid,omitempty"`
	}

	// Value is one sub-category's recorded amount within an entry.
	Value struct {
		ID          int64
		Subcategory int64
		Skip        bool
		Payload     Payload
	}
)

func (Simple) Kind() PayloadKind { return KindSimple }
func (FX) Kind() PayloadKind     { return KindFX }
func (Option) Kind() PayloadKind { return KindOption }
func (Loan) Kind() PayloadKind   { return KindLoan }

func (k PayloadKind) String() string {
	switch k {
	case KindSimple:
		return "simple"
	case KindFX:
		return "fx"
	case KindOption:
		return "option"
	case KindLoan:
		return "loan"
	default:
		return fmt.Sprintf("PayloadKind(%d)", int(k))
	}
}

// Sorted returns a copy of the basket ordered by currency code.
func (fx FX) Sorted() FX {
	out := make(FX, len(fx))
	copy(out, fx)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Currency < out[j].Currency })
	return out
}

func (v Value) Validate() error {
	if v.Subcategory <= 0 {
		return BadRequest("value without subcategory")
	}
	switch p := v.Payload.(type) {
	case nil:
		return BadRequest("value without payload", v.Subcategory)
	case Simple:
	case FX:
		if len(p) == 0 {
			return BadRequest("empty fx basket", v.Subcategory)
		}
		seen := make(map[string]struct{}, len(p))
		for _, a := range p {
			if a.Currency == "" {
				return BadRequest("fx amount without currency", v.Subcategory)
			}
			if _, dup := seen[a.Currency]; dup {
				return BadRequest(fmt.Sprintf("duplicate fx currency %s", a.Currency), v.Subcategory)
			}
			seen[a.Currency] = struct{}{}
		}
	case Option:
		if p.Units < 0 || p.Vested < 0 || p.StrikePrice < 0 || p.MarketPrice < 0 {
			return BadRequest("negative option field", v.Subcategory)
		}
	case Loan:
		if p.Principal < 0 || p.PaymentsRemaining < 0 {
			return BadRequest("negative loan field", v.Subcategory)
		}
	default:
		return BadRequest(fmt.Sprintf("unknown payload %T", p), v.Subcategory)
	}
	return nil
}

// canonical drops the database identifier and orders FX baskets so that two values
// describing the same holding compare equal.
func (v Value) canonical() Value {
	v.ID = 0
	if fx, ok := v.Payload.(FX); ok {
		v.Payload = fx.Sorted()
	}
	return v
}

// EqualContent reports whether two values are structurally equal, ignoring their IDs.
func (v Value) EqualContent(other Value) bool {
	return reflect.DeepEqual(v.canonical(), other.canonical())
}
