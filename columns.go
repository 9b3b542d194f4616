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

package forensictimeline

// columnMap tracks the flattened field names per tool. The timeline
// database creates one view per tool with a column for every field.
type columnMap struct {
	changed bool
	columns map[string]map[string]bool
}

func newColumnMap() *columnMap {
	return &columnMap{
		changed: false,
		columns: map[string]map[string]bool{},
	}
}

func (cm *columnMap) all() map[string]map[string]bool {
	return cm.columns
}

func (cm *columnMap) add(tool, field string) {
	if _, ok := cm.columns[tool]; !ok {
		cm.columns[tool] = map[string]bool{}
	}
	cm.columns[tool][field] = true
}

func (cm *columnMap) addAll(tool string, fields map[string]interface{}) {
	if _, ok := cm.columns[tool]; !ok {
		cm.columns[tool] = map[string]bool{}
		cm.changed = true
	}
	for field := range fields {
		if _, ok := cm.columns[tool][field]; !ok {
			cm.columns[tool][field] = true
			cm.changed = true
		}
	}
}
