package qa

import (
	"errors"
	"testing"
)

func TestQuestionValidate(t *testing.T) {
	cases := []struct {
		body string
		want error
	}{
		{"", ErrBlankBody},
		{"   ", ErrBlankBody},
		{"\t\n", ErrBlankBody},
		{"　　", ErrBlankBody},
		{"hello", nil},
		{"  こんにちは  ", nil},
	}
	for _, c := range cases {
		got := Question{Body: c.body}.Validate()
		if !errors.Is(got, c.want) && got != c.want {
			t.Errorf("Validate(%q) = %v, want %v", c.body, got, c.want)
		}
	}
}

func TestAnswerValidateIgnoresParent(t *testing.T) {
	if err := (Answer{Body: " "}).Validate(); !errors.Is(err, ErrBlankBody) {
		t.Fatalf("blank answer: got %v", err)
	}
	if err := (Answer{Body: "ok"}).Validate(); err != nil {
		t.Fatalf("valid answer: got %v", err)
	}
}

func TestCloneCopiesAnswer(t *testing.T) {
	q := Question{ID: 1, Answer: &Answer{ID: 2, Body: "a"}}
	c := q.Clone()
	c.Answer.Body = "changed"
	if q.Answer.Body != "a" {
		t.Fatalf("clone shares answer pointer")
	}
}

func TestStorageErrorIs(t *testing.T) {
	err := &StorageError{Op: "find", Err: errors.New("conn refused")}
	if !errors.Is(err, ErrStorage) {
		t.Fatal("StorageError should match ErrStorage")
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatal("StorageError should not match ErrNotFound")
	}
}

func TestPage(t *testing.T) {
	p := NewPage(0, 2, 3)
	if p.Offset() != 0 || !p.HasPrev() || p.HasNext() {
		t.Fatalf("page 0: %+v offset=%d prev=%v next=%v", p, p.Offset(), p.HasPrev(), p.HasNext())
	}
	p = NewPage(1, 2, 3)
	if p.Offset() != 2 || p.HasPrev() || !p.HasNext() || p.Next() != 0 {
		t.Fatalf("page 1: %+v", p)
	}
	p = NewPage(-4, 0, 0)
	if p.Number != 0 || p.Size != DefaultPageSize {
		t.Fatalf("clamp: %+v", p)
	}
}
