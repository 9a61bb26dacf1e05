package functions

import (
	"sort"

	"github.com/inkcell/inkcell/internal/locale"
	"github.com/inkcell/inkcell/internal/model"
)

func init() {
	Register("COUNT", fnCount)
	Register("COUNTA", fnCounta)
	Register("COUNTBLANK", fnCountBlank)
	Register("MAX", fnMax)
	Register("MIN", fnMin)
	Register("MEDIAN", fnMedian)
	Register("AVERAGEA", fnAverageA)
}

func fnCount(args []model.Value, ctx Context) model.Value {
	n := 0
	for _, v := range Flatten(args) {
		if _, ok := v.(float64); ok {
			n++
		}
	}
	return float64(n)
}

func fnCounta(args []model.Value, ctx Context) model.Value {
	n := 0
	for _, v := range Flatten(args) {
		if v != nil {
			n++
		}
	}
	return float64(n)
}

func fnCountBlank(args []model.Value, ctx Context) model.Value {
	n := 0
	for _, v := range Flatten(args) {
		if v == nil {
			n++
		}
	}
	return float64(n)
}

func fnMax(args []model.Value, ctx Context) model.Value {
	if e, ok := FirstError(args); ok {
		return e
	}
	best := 0.0
	seen := false
	for _, v := range Flatten(args) {
		if n, ok := v.(float64); ok {
			if !seen || n > best {
				best = n
			}
			seen = true
		}
	}
	return best
}

func fnMin(args []model.Value, ctx Context) model.Value {
	if e, ok := FirstError(args); ok {
		return e
	}
	best := 0.0
	seen := false
	for _, v := range Flatten(args) {
		if n, ok := v.(float64); ok {
			if !seen || n < best {
				best = n
			}
			seen = true
		}
	}
	return best
}

func fnMedian(args []model.Value, ctx Context) model.Value {
	if e, ok := FirstError(args); ok {
		return e
	}
	var nums []float64
	for _, v := range Flatten(args) {
		if n, ok := v.(float64); ok {
			nums = append(nums, n)
		}
	}
	if len(nums) == 0 {
		return errVal(ctx, locale.ErrNum)
	}
	sort.Float64s(nums)
	mid := len(nums) / 2
	if len(nums)%2 == 1 {
		return nums[mid]
	}
	return (nums[mid-1] + nums[mid]) / 2
}

// fnAverageA counts text and FALSE as 0 and TRUE as 1, unlike AVERAGE
// which skips them entirely — the distinguishing behavior spec §5 calls
// out between the two.
func fnAverageA(args []model.Value, ctx Context) model.Value {
	if e, ok := FirstError(args); ok {
		return e
	}
	var total float64
	var count int
	for _, v := range Flatten(args) {
		switch t := v.(type) {
		case float64:
			total += t
		case bool:
			if t {
				total++
			}
		case string:
		default:
			continue
		}
		count++
	}
	if count == 0 {
		return errVal(ctx, locale.ErrDiv)
	}
	return total / float64(count)
}
