package reshape

import (
	"fmt"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/ginjaninja78/storeorders/internal/types"
)

var propertyHeaders = []string{"Hmk Kod", "Hmk Ürün Açıklama", "798 MM", "5776 M", "798 M", "TOPLAM"}

// matrixFromValues lays values out as rows of three store cells, cycling
// through a few product codes so codes repeat across rows.
func matrixFromValues(values []int) []types.Row {
	var rows []types.Row
	for i := 0; i+3 <= len(values); i += 3 {
		code := fmt.Sprintf("P%d", (i/3)%4)
		rows = append(rows, types.Row{
			types.Text(code),
			types.Text("desc " + code),
			types.Number(float64(values[i])),
			types.Text(fmt.Sprintf("%d", values[i+1])),
			types.Number(float64(values[i+2]) + 0.75),
		})
	}
	return rows
}

func TestNormalizeThresholdLaw(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	properties := gopter.NewProperties(parameters)

	properties.Property("numbers never normalize into (0,10)", prop.ForAll(
		func(f float64) bool {
			q := Normalize(types.Number(f))
			if f >= 0 && f < MinQuantity {
				return q == 0
			}
			return q == 0 || q >= MinQuantity
		},
		gen.Float64Range(-1000, 1000),
	))

	properties.Property("decimal-comma text agrees with the number", prop.ForAll(
		func(f float64) bool {
			f = math.Trunc(f*100) / 100
			text := strings.ReplaceAll(fmt.Sprintf("%.2f", f), ".", ",")
			return Normalize(types.Text(text)) == Normalize(types.Number(f))
		},
		gen.Float64Range(0, 100000),
	))

	properties.TestingRun(t)
}

func TestReshapeLaws(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	schema := schemaFor(propertyHeaders)

	properties.Property("no record below the threshold", prop.ForAll(
		func(values []int) bool {
			res, err := Reshape("p", matrixFromValues(values), schema, NewAggregates())
			if err != nil {
				return false
			}
			for _, r := range res.Records {
				if r.Quantity < MinQuantity {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(-20, 300)),
	))

	properties.Property("totals equal the sum of records", prop.ForAll(
		func(values []int) bool {
			agg := NewAggregates()
			res, err := Reshape("p", matrixFromValues(values), schema, agg)
			if err != nil {
				return false
			}

			byStore := map[string]int{}
			byProduct := map[string]int{}
			for _, r := range res.Records {
				byStore[r.StoreCode] += r.Quantity
				byProduct[r.ProductCode] += r.Quantity
			}
			return reflect.DeepEqual(byStore, agg.StoreTotals.Map()) &&
				reflect.DeepEqual(byProduct, agg.ProductTotals.Map())
		},
		gen.SliceOf(gen.IntRange(-20, 300)),
	))

	properties.Property("reshaping twice gives identical output", prop.ForAll(
		func(values []int) bool {
			rows := matrixFromValues(values)
			a1, a2 := NewAggregates(), NewAggregates()
			r1, err1 := Reshape("p", rows, schema, a1)
			r2, err2 := Reshape("p", rows, schema, a2)
			if err1 != nil || err2 != nil {
				return false
			}
			return reflect.DeepEqual(r1.Records, r2.Records) &&
				reflect.DeepEqual(a1.StoreTotals.Keys(), a2.StoreTotals.Keys()) &&
				reflect.DeepEqual(a1.StoreTotals.Map(), a2.StoreTotals.Map()) &&
				reflect.DeepEqual(a1.ProductTotals.Map(), a2.ProductTotals.Map()) &&
				reflect.DeepEqual(a1.ProductDescriptions, a2.ProductDescriptions) &&
				r1.ProcessedProducts == r2.ProcessedProducts
		},
		gen.SliceOf(gen.IntRange(-20, 300)),
	))

	properties.TestingRun(t)
}
