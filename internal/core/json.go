package core

import (
	"encoding/json"
	"fmt"
)

// valueJSON is the wire shape of a Value: exactly one of simple, fx, option or loan is set.
type valueJSON struct {
	ID          int64   `json:"id,omitempty"`
	Subcategory int64   `json:"subcategory"`
	Skip        bool    `json:"skip,omitempty"`
	Simple      *int64  `json:"simple,omitempty"`
	FX          FX      `json:"fx,omitempty"`
	Option      *Option `json:"option,omitempty"`
	Loan        *Loan   `json:"loan,omitempty"`
}

func (v Value) MarshalJSON() ([]byte, error) {
	out := valueJSON{ID: v.ID, Subcategory: v.Subcategory, Skip: v.Skip}
	switch p := v.Payload.(type) {
	case Simple:
		amount := p.Amount
		out.Simple = &amount
	case FX:
		out.FX = p
	case Option:
		out.Option = &p
	case Loan:
		out.Loan = &p
	case nil:
	default:
		return nil, fmt.Errorf("marshal value: unknown payload %T", p)
	}
	return json.Marshal(out)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var in valueJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	set := 0
	if in.FX != nil {
		set++
	}
	if in.Option != nil {
		set++
	}
	if in.Loan != nil {
		set++
	}
	if set > 1 {
		return fmt.Errorf("value for subcategory %d: more than one of fx, option, loan", in.Subcategory)
	}
	// A simple amount may only accompany a loan, as its negative principal.
	if in.Simple != nil && set == 1 && (in.Loan == nil || *in.Simple != -in.Loan.Principal) {
		return fmt.Errorf("value for subcategory %d: simple amount with fx, option or loan payload", in.Subcategory)
	}

	*v = Value{ID: in.ID, Subcategory: in.Subcategory, Skip: in.Skip}
	switch {
	case in.FX != nil:
		v.Payload = in.FX
	case in.Option != nil:
		v.Payload = *in.Option
	case in.Loan != nil:
		v.Payload = *in.Loan
	case in.Simple != nil:
		v.Payload = Simple{Amount: *in.Simple}
	default:
		return fmt.Errorf("value for subcategory %d: no payload", in.Subcategory)
	}
	return nil
}

type entryJSON struct {
	ID           int64         `json:"id"`
	Date         Date          `json:"date"`
	Values       []Value       `json:"values"`
	CreditLimits []CreditLimit `json:"creditLimit"`
	Currencies   []Currency    `json:"currencies"`
}

func (e Entry) MarshalJSON() ([]byte, error) {
	out := entryJSON{
		ID:           e.ID,
		Date:         e.Date,
		Values:       e.Values,
		CreditLimits: e.CreditLimits,
		Currencies:   e.Currencies,
	}
	if out.Values == nil {
		out.Values = []Value{}
	}
	if out.CreditLimits == nil {
		out.CreditLimits = []CreditLimit{}
	}
	if out.Currencies == nil {
		out.Currencies = []Currency{}
	}
	return json.Marshal(out)
}
