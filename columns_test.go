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

import (
	"reflect"
	"testing"
)

func Test_columnMap_add(t *testing.T) {
	cm := newColumnMap()
	cm.add("evtxecmd", "EventId")
	if cm.changed {
		t.Error("add() marked known columns as changed")
	}
	if !reflect.DeepEqual(cm.all(), map[string]map[string]bool{"evtxecmd": {"EventId": true}}) {
		t.Errorf("all() = %v", cm.all())
	}
}

func Test_columnMap_addAll(t *testing.T) {
	tests := []struct {
		name        string
		known       []string
		fields      map[string]interface{}
		wantChanged bool
	}{
		{"new tool", nil, map[string]interface{}{"url": "x"}, true},
		{"new field", []string{"url"}, map[string]interface{}{"url": "x", "title": "y"}, true},
		{"known fields", []string{"url", "title"}, map[string]interface{}{"url": "x"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cm := newColumnMap()
			for _, field := range tt.known {
				cm.add("Hindsight", field)
			}
			cm.addAll("Hindsight", tt.fields)
			if cm.changed != tt.wantChanged {
				t.Errorf("changed = %v, want %v", cm.changed, tt.wantChanged)
			}
			for field := range tt.fields {
				if !cm.all()["Hindsight"][field] {
					t.Errorf("field %s missing", field)
				}
			}
		})
	}
}
