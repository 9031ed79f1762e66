package job

import (
	"reflect"
	"testing"

	"pixbatch/models"
)

func TestOutputNames(t *testing.T) {
	batch := []models.NamedFile{
		{Name: "holiday.jpg"},
		{Name: "report.v2.png"},
		{Name: "noextension"},
	}

	got := outputNames(batch, "webp")
	want := []string{"holiday.webp", "report.v2.webp", "noextension.webp"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("outputNames = %v, want %v", got, want)
	}
}

func TestOutputNamesJpegAlias(t *testing.T) {
	got := outputNames([]models.NamedFile{{Name: "pic.png"}}, "jpeg")
	if got[0] != "pic.jpg" {
		t.Errorf("jpeg alias should use .jpg extension, got %q", got[0])
	}
}

func TestOutputNamesDeduplication(t *testing.T) {
	// Same base name in different source formats collides after conversion.
	batch := []models.NamedFile{
		{Name: "photo.jpg"},
		{Name: "photo.png"},
		{Name: "photo.gif"},
	}

	got := outputNames(batch, "webp")
	want := []string{"photo.webp", "photo_2.webp", "photo_3.webp"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("outputNames = %v, want %v", got, want)
	}
}
