package server

import (
	"html/template"
	"net/url"

	"priceview/internal/interaction"
	"priceview/internal/selection"
	"priceview/internal/service"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Heading}}</title>
<style>
body { font-family: sans-serif; margin: 24px; }
h2 { text-align: center; }
form { display: flex; gap: 15px; justify-content: center; margin-bottom: 20px; }
select { width: 250px; }
.chart { display: block; margin: 0 auto; max-width: 100%; }
.stats { margin-top: 20px; padding: 15px; background: #f4f6f8; border-radius: 8px; font-size: 18px; text-align: center; box-shadow: 0 2px 6px rgba(0,0,0,0.1); }
.stats .product { font-weight: bold; }
.notice { color: #888; }
</style>
</head>
<body>
<h2>{{.Heading}}</h2>
<form method="get" action="/">
  <input type="hidden" name="prior_product" value="{{.State.Selection.Product}}">
  <input type="hidden" name="prior_range" value="{{.State.Selection.Range}}">
  <input type="hidden" name="prior_btn_1m" value="{{.State.Clicks.LastMonth}}">
  <input type="hidden" name="prior_btn_6m" value="{{.State.Clicks.LastSixMonths}}">
  <input type="hidden" name="prior_btn_all" value="{{.State.Clicks.AllTime}}">
  <input type="hidden" name="btn_1m" value="{{.State.Clicks.LastMonth}}">
  <input type="hidden" name="btn_6m" value="{{.State.Clicks.LastSixMonths}}">
  <input type="hidden" name="btn_all" value="{{.State.Clicks.AllTime}}">
  {{range .Buttons}}<button type="submit" id="{{.ID}}" name="trigger" value="{{.ID}}">{{.Label}}</button>
  {{end}}<select id="product-dropdown" name="product" onchange="this.form.submit()">
  {{range .Products}}<option value="{{.}}"{{if eq . $.State.Selection.Product}} selected{{end}}>{{.}}</option>
  {{end}}</select>
</form>
<img class="chart" id="price-graph" src="{{.ChartURL}}" alt="{{.Chart.Title}}">
<div class="stats" id="stats-bar">
{{- if .Notice}}<span class="product">{{.Stats.Product.Text}}</span> | <span class="notice">{{.Notice}}</span>
{{- else}}{{range $i, $line := .Stats.Lines}}{{if $i}} | {{end}}<span{{if $line.Color}} style="color: {{$line.Color}}"{{else}} class="product"{{end}}>{{$line.Text}}</span>{{end}}
{{- end}}
</div>
</body>
</html>
`))

type pageButton struct {
	ID    interaction.TriggerID
	Label string
}

var pageButtons = []pageButton{
	{ID: interaction.ButtonFor(selection.LastMonth), Label: "1 Month"},
	{ID: interaction.ButtonFor(selection.LastSixMonths), Label: "6 Months"},
	{ID: interaction.ButtonFor(selection.AllTime), Label: "All"},
}

type pageData struct {
	service.Frame
	Heading  string
	Products []string
	Buttons  []pageButton
	ChartURL string
}

func newPageData(frame service.Frame, products []string) pageData {
	q := url.Values{}
	q.Set("product", frame.State.Selection.Product)
	q.Set("range", frame.State.Selection.Range.String())

	return pageData{
		Frame:    frame,
		Heading:  "Product Price Tracker",
		Products: products,
		Buttons:  pageButtons,
		ChartURL: "/api/chart.png?" + q.Encode(),
	}
}
