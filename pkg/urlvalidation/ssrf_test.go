package urlvalidation

import "testing"

func TestValidateWebhookURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"loopback IP", "http://127.0.0.1/hook", true},
		{"loopback name", "http://localhost:8080/hook", true},
		{"private 10", "https://10.1.2.3/hook", true},
		{"private 172", "https://172.16.0.1/hook", true},
		{"private 192", "https://192.168.1.1/hook", true},
		{"link local", "http://169.254.169.254/latest/meta-data", true},
		{"cgn", "http://100.64.0.1/hook", true},
		{"test net", "http://192.0.2.10/hook", true},
		{"multicast", "http://224.0.0.1/hook", true},
		{"unspecified", "http://0.0.0.0/hook", true},
		{"bad scheme ftp", "ftp://example.com/hook", true},
		{"bad scheme file", "file:///etc/passwd", true},
		{"no host", "https:///hook", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateWebhookURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateWebhookURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestAllowPrivateIPsOption(t *testing.T) {
	if err := ValidateWebhookURL("http://127.0.0.1:9000/hook", AllowPrivateIPs()); err != nil {
		t.Errorf("AllowPrivateIPs should permit loopback: %v", err)
	}
	// Scheme checks still apply.
	if err := ValidateWebhookURL("ftp://127.0.0.1/hook", AllowPrivateIPs()); err == nil {
		t.Error("bad scheme should fail even with AllowPrivateIPs")
	}
}
