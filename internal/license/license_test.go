package license

import (
	"context"
	"errors"
	"testing"

	"github.com/indaco/rustle/internal/core"
)

func TestParseCopyrightLine(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"Copyright (c) 2023 John T. Wodder II", "Copyright (c) 2023 John T. Wodder II", false},
		{"Copyright (c) 2023,2025 A. Author", "Copyright (c) 2023, 2025 A. Author", false},
		{"Copyright (c) 2021-2022 A. Author", "Copyright (c) 2021-2022 A. Author", false},
		{"Copyright 2020 No Marker Corp.", "Copyright 2020 No Marker Corp.", false},
		{"  Copyright (c) 2020 Indented Inc.", "  Copyright (c) 2020 Indented Inc.", false},
		{"Copyright (c) 2019, 2021-2022, 2024 A. Author", "Copyright (c) 2019, 2021-2022, 2024 A. Author", false},
		{"All rights reserved", "", true},
		{"Copyright (c) someone", "", true},
		{"Copyright (c) 2023", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			crl, err := ParseCopyrightLine(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", crl)
				}
				if !errors.Is(err, ErrInvalidCopyright) {
					t.Errorf("error %v is not ErrInvalidCopyright", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := crl.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAddYear_Merging(t *testing.T) {
	tests := []struct {
		name  string
		input string
		add   []int
		want  string
	}{
		{"extend adjacent range", "Copyright (c) 2021-2022 A", []int{2023}, "Copyright (c) 2021-2023 A"},
		{"join single to range", "Copyright (c) 2021, 2023 A", []int{2022}, "Copyright (c) 2021-2023 A"},
		{"duplicate is no-op", "Copyright (c) 2021-2023 A", []int{2022}, "Copyright (c) 2021-2023 A"},
		{"disjoint stays disjoint", "Copyright (c) 2019 A", []int{2024}, "Copyright (c) 2019, 2024 A"},
		{"insert before", "Copyright (c) 2024 A", []int{2019}, "Copyright (c) 2019, 2024 A"},
		{"bridge multiple ranges", "Copyright (c) 2019-2020, 2022-2023 A", []int{2021}, "Copyright (c) 2019-2023 A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			crl, err := ParseCopyrightLine(tt.input)
			if err != nil {
				t.Fatal(err)
			}
			for _, y := range tt.add {
				crl.AddYear(y)
			}
			if got := crl.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUpdateYears(t *testing.T) {
	ctx := context.Background()

	t.Run("updates only the first copyright line", func(t *testing.T) {
		fsys := core.NewMockFileSystem()
		fsys.SetFile("LICENSE", []byte("The Foobar License\n"+
			"\n"+
			"Copyright (c) 2021-2022 John T. Wodder II\n"+
			"Copyright (c) 2020 The Prime Mover and their Agents\n"+
			"\n"+
			"Permission is not granted.\n"))

		if err := UpdateYears(ctx, fsys, "LICENSE", []int{2023}); err != nil {
			t.Fatal(err)
		}
		want := "The Foobar License\n" +
			"\n" +
			"Copyright (c) 2021-2023 John T. Wodder II\n" +
			"Copyright (c) 2020 The Prime Mover and their Agents\n" +
			"\n" +
			"Permission is not granted.\n"
		got, _ := fsys.GetFile("LICENSE")
		if string(got) != want {
			t.Errorf("LICENSE = %q, want %q", got, want)
		}
	})

	t.Run("no copyright line", func(t *testing.T) {
		fsys := core.NewMockFileSystem()
		fsys.SetFile("LICENSE", []byte("Do whatever you want.\n"))
		err := UpdateYears(ctx, fsys, "LICENSE", []int{2023})
		if !errors.Is(err, ErrNoCopyrightLine) {
			t.Errorf("error = %v, want ErrNoCopyrightLine", err)
		}
	})
}
