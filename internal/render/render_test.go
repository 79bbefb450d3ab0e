package render

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"priceview/internal/selection"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func point(day int, price string) selection.Point {
	return selection.Point{
		Date:  time.Date(2025, 1, day, 0, 0, 0, 0, time.UTC),
		Price: decimal.RequireFromString(price),
	}
}

func TestNewChartSpec(t *testing.T) {
	spec := NewChartSpec("Widget", []selection.Point{point(1, "10"), point(2, "12.5")})

	if spec.Title != "Widget Price Trend" || spec.XTitle != "Date" || spec.YTitle != "Price (USD)" {
		t.Fatalf("标题不正确: %+v", spec)
	}
	if !spec.Markers || spec.HoverMode != "x unified" {
		t.Fatalf("应启用标记点与统一悬停: %+v", spec)
	}
	if len(spec.Dates) != 2 || spec.Prices[1] != 12.5 {
		t.Fatalf("数据点不正确: %+v", spec)
	}
	if spec.Empty() {
		t.Fatal("有数据时不应为空")
	}
}

func TestPNG(t *testing.T) {
	cases := map[string][]selection.Point{
		"series":      {point(1, "10"), point(15, "15"), point(30, "8")},
		"single":      {point(1, "10")},
		"flat":        {point(1, "10"), point(2, "10")},
		"same day":    {point(1, "10"), point(1, "11")},
		"empty range": nil,
	}
	for name, points := range cases {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			err := PNG(&buf, NewChartSpec("Widget", points), Options{Width: 640, Height: 360})
			if err != nil {
				t.Fatalf("渲染不应报错: %v", err)
			}
			if !bytes.HasPrefix(buf.Bytes(), pngMagic) {
				t.Fatal("输出应为 PNG")
			}
		})
	}
}

func TestPNGRejectsMismatchedSpec(t *testing.T) {
	spec := ChartSpec{Dates: []time.Time{time.Now()}}
	if err := PNG(&bytes.Buffer{}, spec, Options{}); err == nil {
		t.Fatal("日期与价格长度不一致时应报错")
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, "Widget", []selection.Point{point(1, "10"), point(2, "12.50")}); err != nil {
		t.Fatalf("写入 CSV 失败: %v", err)
	}
	want := "Product,Date,Price_USD\nWidget,2025-01-01,10\nWidget,2025-01-02,12.5\n"
	if buf.String() != want {
		t.Fatalf("期望 %q, 实际 %q", want, buf.String())
	}
}
