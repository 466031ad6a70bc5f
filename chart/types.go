// Package chart extracts plot data from embedded chart sub-documents.
package chart

import (
	"encoding/xml"

	"github.com/tsawler/deckjson/style"
)

type chartSpaceXML struct {
	XMLName xml.Name `xml:"chartSpace"`
	Chart   chartXML `xml:"chart"`
}

type chartXML struct {
	PlotArea plotAreaXML `xml:"plotArea"`
}

// plotAreaXML lists the chart-type containers the extractor recognizes.
// Exactly one is populated in a well-formed chart part.
type plotAreaXML struct {
	Bar       *barChartXML      `xml:"barChart"`
	Bar3D     *barChartXML      `xml:"bar3DChart"`
	Line      *seriesChartXML   `xml:"lineChart"`
	Line3D    *seriesChartXML   `xml:"line3DChart"`
	Pie       *seriesChartXML   `xml:"pieChart"`
	Pie3D     *seriesChartXML   `xml:"pie3DChart"`
	Doughnut  *doughnutChartXML `xml:"doughnutChart"`
	Area      *seriesChartXML   `xml:"areaChart"`
	Area3D    *seriesChartXML   `xml:"area3DChart"`
	Scatter   *seriesChartXML   `xml:"scatterChart"`
	Bubble    *seriesChartXML   `xml:"bubbleChart"`
	Radar     *seriesChartXML   `xml:"radarChart"`
	Surface   *seriesChartXML   `xml:"surfaceChart"`
	Surface3D *seriesChartXML   `xml:"surface3DChart"`
	Stock     *seriesChartXML   `xml:"stockChart"`
}

type barChartXML struct {
	BarDir *strValXML `xml:"barDir"`
	Ser    []serXML   `xml:"ser"`
}

type doughnutChartXML struct {
	Ser      []serXML   `xml:"ser"`
	HoleSize *intValXML `xml:"holeSize"`
}

type seriesChartXML struct {
	Ser []serXML `xml:"ser"`
}

// serXML is one series. Category charts use Cat and Val; scatter and
// bubble charts carry the point coordinates as XVal and YVal instead.
type serXML struct {
	Idx   *intValXML  `xml:"idx"`
	Order *intValXML  `xml:"order"`
	Tx    *serTxXML   `xml:"tx"`
	SpPr  *serSpPrXML `xml:"spPr"`
	Cat   *axDataXML  `xml:"cat"`
	Val   *numDataXML `xml:"val"`
	XVal  *axDataXML  `xml:"xVal"`
	YVal  *numDataXML `xml:"yVal"`
}

type serSpPrXML struct {
	style.FillProperties
}

type serTxXML struct {
	StrRef *strRefXML `xml:"strRef"`
	V      string     `xml:"v"`
}

type strValXML struct {
	Val string `xml:"val,attr"`
}

type intValXML struct {
	Val int64 `xml:"val,attr"`
}

// ptXML is one cached point. Idx places the point; indices may be sparse.
type ptXML struct {
	Idx int     `xml:"idx,attr"`
	V   string  `xml:"v"`
}

type ptCountXML struct {
	Val int `xml:"val,attr"`
}

type strCacheXML struct {
	PtCount *ptCountXML `xml:"ptCount"`
	Pts     []ptXML     `xml:"pt"`
}

type strRefXML struct {
	F     string       `xml:"f"`
	Cache *strCacheXML `xml:"strCache"`
}

type numCacheXML struct {
	PtCount *ptCountXML `xml:"ptCount"`
	Pts     []ptXML     `xml:"pt"`
}

type numRefXML struct {
	F     string       `xml:"f"`
	Cache *numCacheXML `xml:"numCache"`
}

// axDataXML is category or x-axis data in any of its reference or literal
// forms.
type axDataXML struct {
	StrRef *strRefXML   `xml:"strRef"`
	NumRef *numRefXML   `xml:"numRef"`
	StrLit *strCacheXML `xml:"strLit"`
	NumLit *numCacheXML `xml:"numLit"`
}

type numDataXML struct {
	NumRef *numRefXML   `xml:"numRef"`
	NumLit *numCacheXML `xml:"numLit"`
}
