package usecase

import "testing"

func TestSplitSpanName(t *testing.T) {
	tests := []struct {
		in      string
		service string
		method  string
		ok      bool
	}{
		{in: "usecase.AttendanceService.Tally", service: "AttendanceService", method: "Tally", ok: true},
		{in: " usecase.FileService.EnableSharing ", service: "FileService", method: "EnableSharing", ok: true},
		{in: "usecase.FileService", ok: false},
		{in: "usecase..List", service: "", method: "List", ok: false},
		{in: "httpapi.Handler.ListPlayers", ok: false},
		{in: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			service, method, ok := splitSpanName(tt.in)
			if ok != tt.ok {
				t.Fatalf("splitSpanName(%q) ok=%v want %v", tt.in, ok, tt.ok)
			}
			if ok && (service != tt.service || method != tt.method) {
				t.Fatalf("splitSpanName(%q)=(%q,%q) want (%q,%q)", tt.in, service, method, tt.service, tt.method)
			}
		})
	}
}

func TestStartUsecaseSpan_WithoutParentIsNoop(t *testing.T) {
	ctx := t.Context()
	got, span := startUsecaseSpan(ctx, "usecase.PlayerService.List")
	defer span.End()

	if got != ctx {
		t.Fatalf("expected context to be returned unchanged")
	}
	if span.IsRecording() {
		t.Fatalf("expected non-recording span without a parent")
	}
}
