package source

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// formatCell renders a scanned database or JSON value as a table cell.
func formatCell(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case time.Time:
		if val.IsZero() {
			return ""
		}
		return val.Format(dateLayout)
	case *time.Time:
		if val == nil {
			return ""
		}
		return formatCell(*val)
	case decimal.Decimal:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	case uint32:
		return strconv.FormatUint(uint64(val), 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case bool:
		return strconv.FormatBool(val)
	case fmt.Stringer:
		return val.String()
	case driver.Valuer:
		inner, err := val.Value()
		if err != nil || inner == nil {
			return ""
		}
		return formatCell(inner)
	default:
		return strings.TrimSpace(fmt.Sprint(val))
	}
}

func formatRow(values []any) []string {
	row := make([]string, len(values))
	for i, v := range values {
		row[i] = formatCell(v)
	}
	return row
}
