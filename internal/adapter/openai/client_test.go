package openai

import (
	"context"
	"encoding/base64"
	"errors"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alfaia/alfaia/internal/domain"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return NewClient(srv.URL, "test-key", 5*time.Second), srv
}

func TestClientTranscribe(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/transcriptions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("failed to parse multipart form: %v", err)
		}
		if got := r.FormValue("model"); got != "whisper-1" {
			t.Errorf("unexpected model %q", got)
		}
		json.NewEncoder(w).Encode(map[string]string{"text": "meu nome é Maria"})
	})
	defer srv.Close()

	text, err := client.Transcribe(context.Background(), []byte("fake-ogg"), "voice.ogg")
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	if text != "meu nome é Maria" {
		t.Fatalf("unexpected transcript %q", text)
	}
}

func TestClientSynthesize(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/speech" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req map[string]string
		json.NewDecoder(r.Body).Decode(&req)
		if req["model"] != "tts-1" || req["voice"] != "alloy" {
			t.Errorf("unexpected speech request %v", req)
		}
		w.Write([]byte("mp3-bytes"))
	})
	defer srv.Close()

	audio, err := client.Synthesize(context.Background(), "O sol brilha de dia.")
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	if string(audio) != "mp3-bytes" {
		t.Fatalf("unexpected audio %q", audio)
	}
}

func TestClientGenerateImage(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte("png-bytes"))
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/images/generations" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]string{{"b64_json": encoded}},
		})
	})
	defer srv.Close()

	img, err := client.GenerateImage(context.Background(), "uma casa com porta e janela")
	if err != nil {
		t.Fatalf("GenerateImage failed: %v", err)
	}
	if string(img) != "png-bytes" {
		t.Fatalf("unexpected image payload %q", img)
	}
}

func TestClientComplete(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "Muito bem!"}},
			},
		})
	})
	defer srv.Close()

	reply, err := client.Complete(context.Background(), []ChatMessage{
		{Role: "user", Content: "li o texto todo"},
	})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if reply != "Muito bem!" {
		t.Fatalf("unexpected reply %q", reply)
	}
}

func TestClientEmbed(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/embeddings" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]interface{}{{"embedding": []float32{0.1, 0.2, 0.3}}},
		})
	})
	defer srv.Close()

	vec, err := client.Embed(context.Background(), "a casa tem porta")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if len(vec) != 3 || vec[2] != 0.3 {
		t.Fatalf("unexpected embedding %v", vec)
	}
}

func TestClientErrorsAreAdapterFailures(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"message": "overloaded", "type": "server_error"},
		})
	})
	defer srv.Close()

	_, err := client.Complete(context.Background(), []ChatMessage{{Role: "user", Content: "oi"}})
	if err == nil {
		t.Fatal("expected an error for a 500 response")
	}
	if !domain.IsAdapterFailure(err) {
		t.Fatalf("expected an adapter failure, got %T: %v", err, err)
	}
	var adapterErr *domain.AdapterError
	if !errors.As(err, &adapterErr) || adapterErr.Op != "complete" {
		t.Fatalf("expected adapter error with op complete, got %v", err)
	}
}
