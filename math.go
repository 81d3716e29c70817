// Arithmetic on numeric entries.
//
// A missing key counts as 0. Stored numbers are used as is and numeric
// strings are coerced ("12" -> 12); anything else fails with ErrNotNumber.
// The result is always stored as a number.
package jsonkv

import (
	"math"
	"strconv"
	"strings"
)

func numberAt(doc *Object, key string) (float64, error) {
	v, ok := doc.Get(key)
	if !ok {
		return 0, nil
	}
	switch v.Kind() {
	case KindNumber:
		n, _ := v.AsNumber()
		return n, nil
	case KindString:
		s, _ := v.AsString()
		n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err == nil && !math.IsNaN(n) && !math.IsInf(n, 0) {
			return n, nil
		}
		return 0, fail(CodeNotNumber, "", "%q holds non-numeric string %q", key, s)
	}
	return 0, fail(CodeNotNumber, "", "%q holds %s", key, v.Kind())
}

func finite(op string, n float64) error {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return fail(CodeInvalidInput, op, "%v is not a finite number", n)
	}
	return nil
}

// apply runs calc against the current number at key and stores the result.
func (d *Doc) apply(op, key string, n float64, calc func(cur float64) (float64, error)) (float64, error) {
	if err := requireKey(op, key); err != nil {
		return 0, err
	}
	if err := finite(op, n); err != nil {
		return 0, err
	}

	var old, result float64
	name, err := d.update(op, func(doc *Object) error {
		cur, err := numberAt(doc, key)
		if err != nil {
			return err
		}
		old = cur
		result, err = calc(cur)
		if err != nil {
			return err
		}
		if math.IsNaN(result) || math.IsInf(result, 0) {
			return fail(CodeInvalidInput, "", "result of %v is out of range", op)
		}
		doc.Set(key, Number(result))
		return nil
	})
	if err != nil {
		return 0, err
	}
	d.s.Emit(Event{Name: op, Doc: name, Key: key, Value: Number(result), Old: Number(old)})
	return result, nil
}

// Add increases the number at key by n and returns the new value.
func (d *Doc) Add(key string, n float64) (float64, error) {
	return d.apply(EventAdd, key, n, func(cur float64) (float64, error) {
		return cur + n, nil
	})
}

// Subtract decreases the number at key by n. A result below zero fails
// with ErrNegativeNumber unless clampAtZero is set, in which case 0 is
// stored.
func (d *Doc) Subtract(key string, n float64, clampAtZero bool) (float64, error) {
	return d.apply(EventSubtract, key, n, func(cur float64) (float64, error) {
		r := cur - n
		if r < 0 {
			if !clampAtZero {
				return 0, fail(CodeNegativeNumber, "", "%v - %v is below zero", cur, n)
			}
			r = 0
		}
		return r, nil
	})
}

// Multiply multiplies the number at key by n.
func (d *Doc) Multiply(key string, n float64) (float64, error) {
	return d.apply(EventMultiply, key, n, func(cur float64) (float64, error) {
		return cur * n, nil
	})
}

// Divide divides the number at key by n. The quotient is floored unless
// keepDecimal is set.
func (d *Doc) Divide(key string, n float64, keepDecimal bool) (float64, error) {
	if n == 0 {
		return 0, fail(CodeDivideByZero, EventDivide, "")
	}
	return d.apply(EventDivide, key, n, func(cur float64) (float64, error) {
		r := cur / n
		if !keepDecimal {
			r = math.Floor(r)
		}
		return r, nil
	})
}
