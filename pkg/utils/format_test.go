package utils

import "testing"

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{0.5, "$0.5000"},
		{0.000123, "$0.0001"},
		{1, "$1.00"},
		{42.5, "$42.50"},
		{99.999, "$100.00"},
		{100, "$100"},
		{15000, "$15,000"},
		{67234.5, "$67,234.5"},
		{1234.567, "$1,234.57"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			result := FormatPrice(tt.input)
			if result != tt.expected {
				t.Errorf("FormatPrice(%f) = %s, want %s", tt.input, result, tt.expected)
			}
		})
	}
}

func TestFormatMarketCap(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{999, "$999"},
		{250000, "$250,000"},
		{1e6, "$1.00M"},
		{2.5e9, "$2.50B"},
		{1.3e12, "$1.30T"},
		{999.99e9, "$999.99B"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			result := FormatMarketCap(tt.input)
			if result != tt.expected {
				t.Errorf("FormatMarketCap(%f) = %s, want %s", tt.input, result, tt.expected)
			}
		})
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1.00K"},
		{1500, "1.50K"},
		{21e6, "21.00M"},
		{120e9, "120.00B"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			result := FormatNumber(tt.input)
			if result != tt.expected {
				t.Errorf("FormatNumber(%f) = %s, want %s", tt.input, result, tt.expected)
			}
		})
	}
}

func TestFormatPct(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{2.45, "+2.45%"},
		{-1.23, "-1.23%"},
		{0.0, "+0.00%"},
	}
	for _, tt := range tests {
		if got := FormatPct(tt.input); got != tt.expected {
			t.Errorf("FormatPct(%f) = %s, want %s", tt.input, got, tt.expected)
		}
	}
}

func TestFormatChange(t *testing.T) {
	if got := FormatChange(nil); got != "N/A" {
		t.Errorf("FormatChange(nil) = %s, want N/A", got)
	}
	v := -12.5
	if got := FormatChange(&v); got != "-12.50%" {
		t.Errorf("FormatChange(-12.5) = %s", got)
	}
}

func TestFormatOptional(t *testing.T) {
	if got := FormatOptional(nil, FormatPrice); got != "N/A" {
		t.Errorf("got %s, want N/A", got)
	}
	v := 73000.0
	if got := FormatOptional(&v, FormatPrice); got != "$73,000" {
		t.Errorf("got %s, want $73,000", got)
	}
}
