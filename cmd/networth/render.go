package main

import (
	"io"
	"text/template"

	"github.com/Rhymond/go-money"

	"networth/internal/core"
)

const aggregatesTemplate = `# Net worth {{ .Start }} to {{ .End }}

| Date | Net worth | Assets | Liabilities | Pension | Options | Illiquid | Liquid cash | Locked cash | Investments |
|---|---:|---:|---:|---:|---:|---:|---:|---:|---:|
{{- range .Rows }}
| {{ .Date }} | {{ money (netWorth .) }} | {{ money .Assets }} | {{ money .Liabilities }} | {{ money .Pension }} | {{ money .Options }} | {{ money .IlliquidEquity }} | {{ money .LiquidCash }} | {{ money .LockedCash }} | {{ money .Investments }} |
{{- else }}
| _no entries_ | | | | | | | | | |
{{- end }}
`

const cashTemplate = `{{ define "cash_position" -}}
{{ if . -}}
## Cash on {{ .Date }}

| Liquid cash | Investments |
|---:|---:|
| {{ money .LiquidCash }} | {{ money .Investments }} |
{{- else -}}
## Cash

_no entry on or before this date_
{{- end }}
{{ end }}`

const loansTemplate = `# Loans
{{ range . }}
## {{ .Subcategory }}

| Date | Principal | Payments left | Rate | Paid |
|---|---:|---:|---:|---:|
{{- range .Values }}
| {{ .Date }} | {{ money .Loan.Principal }} | {{ .Loan.PaymentsRemaining }} | {{ printf "%.2f" .Loan.Rate }}% | {{ if .Loan.Paid }}{{ money (deref .Loan.Paid) }}{{ end }} |
{{- end }}
{{ else }}
_no loans recorded_
{{ end }}`

type aggregatesView struct {
	Start, End core.Date
	Rows       []core.AggregateRow
}

// netWorth sums assets and liabilities; liability values are recorded as negative amounts.
func netWorth(r core.AggregateRow) int64 {
	return r.Assets + r.Liabilities
}

// renderer writes markdown reports with amounts shown in one currency.
type renderer struct {
	currency string
}

func (r renderer) funcs() template.FuncMap {
	return template.FuncMap{
		"money":    r.money,
		"netWorth": netWorth,
		"deref":    func(p *int64) int64 { return *p },
	}
}

func (r renderer) money(amount int64) string {
	return money.New(amount, r.currency).Display()
}

func (r renderer) render(w io.Writer, name, text string, data any) error {
	partials, err := template.New("partials").Funcs(r.funcs()).Parse(cashTemplate)
	if err != nil {
		return err
	}
	tmpl, err := partials.New(name).Parse(text)
	if err != nil {
		return err
	}
	return tmpl.Execute(w, data)
}

func (r renderer) Aggregates(w io.Writer, view aggregatesView) error {
	return r.render(w, "aggregates", aggregatesTemplate, view)
}

func (r renderer) Cash(w io.Writer, cash *core.CashPosition) error {
	return r.render(w, "cash", `{{ template "cash_position" . }}`, cash)
}

func (r renderer) Summary(w io.Writer, view aggregatesView, cash *core.CashPosition) error {
	if err := r.Aggregates(w, view); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return err
	}
	return r.Cash(w, cash)
}

func (r renderer) Loans(w io.Writer, loans []core.LoanHistory) error {
	return r.render(w, "loans", loansTemplate, loans)
}
