/*
 * Copyright (c) 2020 Siemens AG
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy of
 * this software and associated documentation files (the "Software"), to deal in
 * the Software without restriction, including without limitation the rights to
 * use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies of
 * the Software, and to permit persons to whom the Software is furnished to do so,
 * subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY, FITNESS
 * FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR
 * COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
 * IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
 * CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
 *
 * Author(s): Jonas Plum
 */

// Package goflatten flattens decoded json objects into a single level map with
// dotted keys, e.g. {"a": {"b": [1]}} becomes {"a.b.0": 1}.
package goflatten

import (
	"strconv"
)

// Flatten returns a map one level deep regardless of how nested the original
// map was. Empty objects, empty arrays and null values do not produce keys.
func Flatten(nested map[string]interface{}) map[string]interface{} {
	flat := map[string]interface{}{}
	flatten(flat, "", nested)
	return flat
}

func flatten(flat map[string]interface{}, prefix string, value interface{}) {
	switch value := value.(type) {
	case nil:
	case map[string]interface{}:
		for k, v := range value {
			flatten(flat, join(prefix, k), v)
		}
	case []interface{}:
		for i, v := range value {
			flatten(flat, join(prefix, strconv.Itoa(i)), v)
		}
	default:
		flat[prefix] = value
	}
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
