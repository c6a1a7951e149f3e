package storage

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

// 读取文件内容辅助函数
func readAll(t *testing.T, r io.Reader) string {
	t.Helper()
	b, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("Failed to read content: %v", err)
	}
	return string(b)
}

// TestLocalStorage 测试本地存储实现
func TestLocalStorage(t *testing.T) {
	tempDir := t.TempDir()

	localStorage, err := NewLocalStorage(LocalConfig{Path: tempDir})
	if err != nil {
		t.Fatalf("Failed to create local storage instance: %v", err)
	}

	content := "The cat sat on the mat. The dog ran fast."
	info, err := localStorage.Save(bytes.NewBufferString(content), "article.txt")
	if err != nil {
		t.Fatalf("Failed to save file: %v", err)
	}

	t.Run("Save", func(t *testing.T) {
		if info.ID == "" {
			t.Error("Returned file ID should not be empty")
		}
		if info.Name != "article.txt" {
			t.Errorf("File name should be article.txt, got %s", info.Name)
		}
		if info.Size != int64(len(content)) {
			t.Errorf("File size should be %d, got %d", len(content), info.Size)
		}
		if info.MimeType != "text/plain" {
			t.Errorf("MIME type should be text/plain, got %s", info.MimeType)
		}
		if _, err := os.Stat(filepath.Join(tempDir, info.ID, "article.txt")); err != nil {
			t.Errorf("Saved file should exist on disk: %v", err)
		}
	})

	t.Run("SaveStripsDirectories", func(t *testing.T) {
		other, err := localStorage.Save(bytes.NewBufferString("x"), "../../etc/notes.md")
		if err != nil {
			t.Fatalf("Failed to save file: %v", err)
		}
		if other.Name != "notes.md" {
			t.Errorf("File name should be notes.md, got %s", other.Name)
		}
		if err := localStorage.Delete(other.ID); err != nil {
			t.Fatalf("Failed to delete file: %v", err)
		}
	})

	t.Run("Get", func(t *testing.T) {
		reader, err := localStorage.Get(info.ID)
		if err != nil {
			t.Fatalf("Failed to get file: %v", err)
		}
		defer reader.Close()

		if got := readAll(t, reader); got != content {
			t.Errorf("File content mismatch, expected: %s, got: %s", content, got)
		}

		path, err := localStorage.LocalPath(info.ID)
		if err != nil {
			t.Fatalf("Failed to resolve local path: %v", err)
		}
		if filepath.Base(path) != "article.txt" {
			t.Errorf("Local path should end with article.txt, got %s", path)
		}
	})

	t.Run("GetMissing", func(t *testing.T) {
		_, err := localStorage.Get("non-existent-id")
		if !errors.Is(err, ErrFileNotFound) {
			t.Errorf("Expected ErrFileNotFound, got %v", err)
		}
		_, err = localStorage.Get("../escape")
		if !errors.Is(err, ErrFileNotFound) {
			t.Errorf("Expected ErrFileNotFound for path traversal, got %v", err)
		}
	})

	t.Run("List", func(t *testing.T) {
		files, err := localStorage.List()
		if err != nil {
			t.Fatalf("Failed to list files: %v", err)
		}
		if len(files) != 1 {
			t.Fatalf("There should be exactly one file, got %d", len(files))
		}
		if files[0].ID != info.ID || files[0].Name != "article.txt" {
			t.Errorf("Unexpected file entry: %+v", files[0])
		}
	})

	t.Run("Exists", func(t *testing.T) {
		exists, err := localStorage.Exists(info.ID)
		if err != nil {
			t.Fatalf("Failed to check file existence: %v", err)
		}
		if !exists {
			t.Error("File should exist, but does not")
		}

		exists, err = localStorage.Exists("non-existent-id")
		if err != nil {
			t.Fatalf("Failed to check non-existent file: %v", err)
		}
		if exists {
			t.Error("Non-existent file should return false, but got true")
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := localStorage.Delete(info.ID); err != nil {
			t.Fatalf("Failed to delete file: %v", err)
		}
		exists, _ := localStorage.Exists(info.ID)
		if exists {
			t.Error("File should have been deleted, but still exists")
		}
		if err := localStorage.Delete(info.ID); !errors.Is(err, ErrFileNotFound) {
			t.Errorf("Deleting twice should return ErrFileNotFound, got %v", err)
		}
	})
}

// TestMinioStorage 测试MinIO存储实现
// 需要本地运行MinIO服务
func TestMinioStorage(t *testing.T) {
	if os.Getenv("SKIP_MINIO_TEST") == "true" {
		t.Skip("SKIP_MINIO_TEST environment variable set, skipping MinIO tests")
	}

	minioStorage, err := NewMinioStorage(MinioConfig{
		Endpoint:  "localhost:9000",
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
		UseSSL:    false,
		Bucket:    "docsum-test",
	})
	if err != nil {
		t.Skipf("MinIO not available, skipping: %v", err)
	}

	content := "A sample document stored in MinIO."
	info, err := minioStorage.Save(bytes.NewBufferString(content), "sample.md")
	if err != nil {
		t.Fatalf("Failed to save test file to MinIO: %v", err)
	}
	defer cleanupTestBucket(t, minioStorage)

	t.Run("Get", func(t *testing.T) {
		reader, err := minioStorage.Get(info.ID)
		if err != nil {
			t.Fatalf("Failed to get file from MinIO: %v", err)
		}
		defer reader.Close()
		if got := readAll(t, reader); got != content {
			t.Errorf("File content mismatch, expected: %s, got: %s", content, got)
		}
	})

	t.Run("List", func(t *testing.T) {
		files, err := minioStorage.List()
		if err != nil {
			t.Fatalf("Failed to list MinIO files: %v", err)
		}
		found := false
		for _, file := range files {
			if file.ID == info.ID && file.Name == "sample.md" {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Saved file ID not found: %s", info.ID)
		}
	})

	t.Run("Exists", func(t *testing.T) {
		exists, err := minioStorage.Exists(info.ID)
		if err != nil {
			t.Fatalf("Failed to check MinIO file existence: %v", err)
		}
		if !exists {
			t.Error("File should exist, but does not")
		}
		exists, err = minioStorage.Exists("non-existent-id")
		if err != nil {
			t.Fatalf("Failed to check non-existent file: %v", err)
		}
		if exists {
			t.Error("Non-existent file should return false, but got true")
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := minioStorage.Delete(info.ID); err != nil {
			t.Fatalf("Failed to delete MinIO file: %v", err)
		}
		exists, _ := minioStorage.Exists(info.ID)
		if exists {
			t.Error("File should have been deleted, but still exists")
		}
	})
}

// cleanupTestBucket 清理测试桶中的所有对象
func cleanupTestBucket(t *testing.T, storage *MinioStorage) {
	files, err := storage.List()
	if err != nil {
		t.Logf("Error listing objects for cleanup: %v", err)
		return
	}
	for _, file := range files {
		if err := storage.Delete(file.ID); err != nil {
			t.Logf("Failed to clean up object %s: %v", file.ID, err)
		}
	}
}

// TestStorageFactory 测试存储工厂函数
func TestStorageFactory(t *testing.T) {
	s, err := NewStorage(Config{Type: "local", Local: LocalConfig{Path: t.TempDir()}})
	if err != nil {
		t.Fatalf("Failed to create local storage: %v", err)
	}
	if _, ok := s.(*LocalStorage); !ok {
		t.Errorf("Expected *LocalStorage, got %T", s)
	}

	if _, err := NewStorage(Config{Type: "ftp"}); err == nil {
		t.Error("Unsupported storage type should return an error")
	}
}

// TestSplitObjectName 测试对象名解析
func TestSplitObjectName(t *testing.T) {
	id, name, ok := splitObjectName("documents/abc/file.pdf")
	if !ok || id != "abc" || name != "file.pdf" {
		t.Errorf("Unexpected split result: %s %s %v", id, name, ok)
	}
	if _, _, ok := splitObjectName("documents/abc"); ok {
		t.Error("Object without file name should not be accepted")
	}
}

// TestGetMimeType 测试MIME类型判断
func TestGetMimeType(t *testing.T) {
	cases := map[string]string{
		"a.pdf":  "application/pdf",
		"a.MD":   "text/markdown",
		"a.txt":  "text/plain",
		"a.docx": "application/octet-stream",
	}
	for name, want := range cases {
		if got := getMimeType(name); got != want {
			t.Errorf("getMimeType(%s) = %s, want %s", name, got, want)
		}
	}
}
