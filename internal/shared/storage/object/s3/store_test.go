package s3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"ocr-backend/internal/shared/storage/object"
)

func TestApplyPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{name: "no prefix", prefix: "", key: "abc.png", want: "abc.png"},
		{name: "simple prefix", prefix: "uploads", key: "abc.png", want: "uploads/abc.png"},
		{name: "prefix trailing slash", prefix: "uploads/", key: "abc.png", want: "uploads/abc.png"},
		{name: "prefix and key slashes", prefix: "/uploads/", key: "/abc.png", want: "uploads/abc.png"},
		{name: "nested prefix", prefix: "ocr/uploads", key: "abc.png", want: "ocr/uploads/abc.png"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := applyPrefix(tt.prefix, tt.key); got != tt.want {
				t.Fatalf("applyPrefix(%q, %q) = %q, want %q", tt.prefix, tt.key, got, tt.want)
			}
		})
	}
}

type fakeS3 struct {
	objects map[string][]byte
	lastPut *s3.PutObjectInput
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}}
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(params.Key)] = data
	f.lastPut = params
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[aws.ToString(params.Key)]
	if !ok {
		return nil, &s3types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, aws.ToString(params.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestStoreRoundTripWithPrefix(t *testing.T) {
	fake := newFakeS3()
	store := NewWithClient(fake, "bucket", "/ocr/", "")
	ctx := context.Background()

	n, err := store.SaveWithKey(ctx, "abc.png", "image/png", strings.NewReader("bytes"))
	if err != nil {
		t.Fatalf("SaveWithKey: %v", err)
	}
	if n != 5 {
		t.Fatalf("expected 5 bytes counted, got %d", n)
	}
	if _, ok := fake.objects["ocr/abc.png"]; !ok {
		t.Fatalf("expected prefixed key, have %v", fake.objects)
	}
	if fake.lastPut.ServerSideEncryption != s3types.ServerSideEncryptionAes256 {
		t.Fatalf("expected AES256 without kms key, got %s", fake.lastPut.ServerSideEncryption)
	}

	rc, err := store.Open(ctx, "abc.png")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	data, _ := io.ReadAll(rc)
	rc.Close()
	if string(data) != "bytes" {
		t.Fatalf("unexpected body %q", data)
	}

	if err := store.Delete(ctx, "abc.png"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Open(ctx, "abc.png"); !errors.Is(err, object.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStoreUsesKMSWhenConfigured(t *testing.T) {
	fake := newFakeS3()
	store := NewWithClient(fake, "bucket", "", "kms-key")

	if _, err := store.SaveWithKey(context.Background(), "k.png", "", strings.NewReader("x")); err != nil {
		t.Fatalf("SaveWithKey: %v", err)
	}
	if fake.lastPut.ServerSideEncryption != s3types.ServerSideEncryptionAwsKms {
		t.Fatalf("expected aws:kms, got %s", fake.lastPut.ServerSideEncryption)
	}
	if aws.ToString(fake.lastPut.SSEKMSKeyId) != "kms-key" {
		t.Fatalf("unexpected kms key id %q", aws.ToString(fake.lastPut.SSEKMSKeyId))
	}
	if fake.lastPut.ContentType != nil {
		t.Fatalf("expected no content type for empty input")
	}
}

func TestStoreSaveSetsContentLengthForSeekers(t *testing.T) {
	fake := newFakeS3()
	store := NewWithClient(fake, "bucket", "", "")

	n, err := store.SaveWithKey(context.Background(), "a.png", "image/png", bytes.NewReader([]byte("abcd")))
	if err != nil {
		t.Fatalf("SaveWithKey: %v", err)
	}
	if n != 4 || aws.ToInt64(fake.lastPut.ContentLength) != 4 {
		t.Fatalf("expected length 4, got n=%d content-length=%d", n, aws.ToInt64(fake.lastPut.ContentLength))
	}

	n, err = store.SaveWithKey(context.Background(), "b.png", "image/png", io.MultiReader(strings.NewReader("ab"), strings.NewReader("c")))
	if err != nil {
		t.Fatalf("SaveWithKey: %v", err)
	}
	if n != 3 || fake.lastPut.ContentLength != nil {
		t.Fatalf("expected counted length 3 without content length, got n=%d", n)
	}
}
