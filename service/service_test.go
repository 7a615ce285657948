/*
	Copyright 2023 Google Inc.
	Licensed under the Apache License, Version 2.0 (the "License");
	you may not use this file except in compliance with the License.
	You may obtain a copy of the License at
		https://www.apache.org/licenses/LICENSE-2.0
	Unless required by applicable law or agreed to in writing, software
	distributed under the License is distributed on an "AS IS" BASIS,
	WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
	See the License for the specific language governing permissions and
	limitations under the License.
*/

package service

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ilhamster/healthviz/config"
	"github.com/ilhamster/healthviz/logging"
)

const testCSV = `id,state,abbr,poverty,povertyMoe,age,ageMoe,income,incomeMoe,healthcare,healthcareLow,healthcareHigh,obesity,obesityLow,obesityHigh,smokes,smokesLow,smokesHigh
1,Alabama,AL,19.3,0.5,38.6,0.2,42830,598,13.9,12.7,15.1,33.5,32.1,35,21.1,19.8,22.5
2,Alaska,AK,11.2,0.9,33.3,0.3,71583,1784,15,13.3,16.8,29.7,27.8,31.6,19.9,18.2,21.8
`

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "data.csv")
	if err := os.WriteFile(path, []byte(testCSV), 0644); err != nil {
		t.Fatal(err)
	}
	cfg := config.Default()
	cfg.DataPath = path
	cfg.Datasets = map[string]string{
		"missing": filepath.Join(dir, "missing.csv"),
	}
	return cfg
}

func TestService(t *testing.T) {
	s, err := New(newTestConfig(t))
	if err != nil {
		t.Fatalf("New() yielded unexpected error %s", err)
	}
	srv := httptest.NewServer(s.Handler(logging.New(io.Discard, "debug", "text")))
	defer srv.Close()
	for _, test := range []struct {
		path         string
		wantStatus   int
		wantContains string
	}{
		{"/", http.StatusOK, `id="scatter"`},
		{"/chart.svg?width=1000", http.StatusOK, `data-abbr="AK"`},
		{"/chart.svg?dataset=missing", http.StatusBadGateway, `healthviz empty`},
		{"/chart.svg?dataset=unlisted", http.StatusBadGateway, `healthviz empty`},
		{"/export.xlsx", http.StatusOK, "PK"},
		{"/metrics", http.StatusOK, "healthviz_chart_renders_total"},
	} {
		t.Run(test.path, func(t *testing.T) {
			resp, err := http.Get(srv.URL + test.path)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			body, err := io.ReadAll(resp.Body)
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != test.wantStatus {
				t.Errorf("GET %s yielded status %d, want %d", test.path, resp.StatusCode, test.wantStatus)
			}
			if !strings.Contains(string(body), test.wantContains) {
				t.Errorf("GET %s body lacks %q", test.path, test.wantContains)
			}
		})
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.CacheSize = 0
	if _, err := New(cfg); !errors.Is(err, config.ErrInvalid) {
		t.Errorf("New() yielded %v, want ErrInvalid", err)
	}
}

func TestFileFetcher(t *testing.T) {
	cfg := newTestConfig(t)
	ff := &fileFetcher{paths: cfg.DatasetPaths()}
	ds, err := ff.Fetch(context.Background(), cfg.Dataset)
	if err != nil {
		t.Fatalf("Fetch() yielded unexpected error %s", err)
	}
	if ds.Len() != 2 {
		t.Errorf("Fetch() yielded %d records, want 2", ds.Len())
	}
	if _, err := ff.Fetch(context.Background(), "missing"); err == nil {
		t.Errorf("Fetch() of a missing file succeeded, wanted error")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := ff.Fetch(ctx, cfg.Dataset); !errors.Is(err, context.Canceled) {
		t.Errorf("Fetch() with a canceled context yielded %v, want context.Canceled", err)
	}
}
