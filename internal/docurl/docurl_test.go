package docurl

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "arxiv abstract page",
			in:   "https://arxiv.org/abs/2201.04234",
			want: "https://arxiv.org/pdf/2201.04234.pdf",
		},
		{
			name: "arxiv pdf page",
			in:   "https://arxiv.org/pdf/2201.04234.pdf",
			want: "https://arxiv.org/pdf/2201.04234.pdf",
		},
		{
			name: "arxiv pdf without extension",
			in:   "https://arxiv.org/pdf/2201.04234",
			want: "https://arxiv.org/pdf/2201.04234.pdf",
		},
		{
			name: "bare arxiv id path",
			in:   "http://arxiv.org/1706.03762",
			want: "https://arxiv.org/pdf/1706.03762.pdf",
		},
		{
			name: "non-arxiv url passes through",
			in:   "https://example.com/paper.pdf",
			want: "https://example.com/paper.pdf",
		},
		{
			name: "arxiv url without recognizable id passes through",
			in:   "https://arxiv.org/list/cs.CL/recent",
			want: "https://arxiv.org/list/cs.CL/recent",
		},
		{
			name: "empty string",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalize_AbstractAndPDFCollide(t *testing.T) {
	abs := Normalize("https://arxiv.org/abs/2201.04234")
	pdf := Normalize("https://arxiv.org/pdf/2201.04234.pdf")
	if abs != pdf {
		t.Errorf("abstract and pdf forms should canonicalize identically: %q vs %q", abs, pdf)
	}
}
