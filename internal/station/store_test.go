package station_test

import (
	"context"
	"testing"

	"airstage/internal/station"
	"airstage/internal/testsupport"
)

func TestGetOrCreateSeedsDefaults(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenProfileStore(t, cfg)

	ctx := context.Background()
	profile, err := store.GetOrCreate(ctx, "kxrn")
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	if profile.Vendor != station.VendorGeneric {
		t.Fatalf("expected generic vendor default, got %q", profile.Vendor)
	}
	if profile.Delivery.Method != station.MethodLocal {
		t.Fatalf("expected local delivery default, got %q", profile.Delivery.Method)
	}
	if profile.Defaults.FileFormat != "wav" || profile.Defaults.EOMSeconds != 0.5 {
		t.Fatalf("unexpected defaults: %+v", profile.Defaults)
	}

	again, err := store.GetOrCreate(ctx, "kxrn")
	if err != nil {
		t.Fatalf("second GetOrCreate failed: %v", err)
	}
	if !again.CreatedAt.Equal(profile.CreatedAt) {
		t.Fatal("expected existing profile to be returned, not reseeded")
	}
}

func TestSaveRoundTripsProfile(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenProfileStore(t, cfg)

	ctx := context.Background()
	profile := station.NewProfile("wfmu")
	profile.Vendor = station.VendorMyriad
	profile.Sidecar = station.SidecarConfig{Type: station.SidecarCSV}
	profile.Delivery.Method = station.MethodS3
	profile.Delivery.Bucket = "playout-drop"
	profile.Delivery.RemotePath = "incoming"
	profile.CategoryAliases = map[string]string{"links": "Links"}

	if err := store.Save(ctx, &profile); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := store.Get(ctx, "wfmu")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if loaded == nil {
		t.Fatal("expected stored profile")
	}
	if loaded.Vendor != station.VendorMyriad || loaded.Sidecar.Type != station.SidecarCSV {
		t.Fatalf("round trip lost vendor/sidecar: %+v", loaded)
	}
	if loaded.Delivery.Bucket != "playout-drop" {
		t.Fatalf("round trip lost delivery config: %+v", loaded.Delivery)
	}
	if loaded.ResolveCategory("LINKS") != "Links" {
		t.Fatalf("alias lookup failed: %+v", loaded.CategoryAliases)
	}
}

func TestGetMissingReturnsNil(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenProfileStore(t, cfg)

	profile, err := store.Get(context.Background(), "nope")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if profile != nil {
		t.Fatalf("expected nil for missing profile, got %+v", profile)
	}
}

func TestDelete(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenProfileStore(t, cfg)

	ctx := context.Background()
	if _, err := store.GetOrCreate(ctx, "kexp"); err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	removed, err := store.Delete(ctx, "kexp")
	if err != nil || !removed {
		t.Fatalf("Delete = (%v, %v), want (true, nil)", removed, err)
	}
	removed, err = store.Delete(ctx, "kexp")
	if err != nil || removed {
		t.Fatalf("second Delete = (%v, %v), want (false, nil)", removed, err)
	}
}

func TestParseEnums(t *testing.T) {
	if v, ok := station.ParseVendor(" Myriad "); !ok || v != station.VendorMyriad {
		t.Fatalf("ParseVendor = (%q, %v)", v, ok)
	}
	if _, ok := station.ParseVendor("winamp"); ok {
		t.Fatal("expected unknown vendor to fail")
	}
	if m, ok := station.ParseMethod("S3"); !ok || m != station.MethodS3 {
		t.Fatalf("ParseMethod = (%q, %v)", m, ok)
	}
	if s, ok := station.ParseSidecarType("MMD"); !ok || s != station.SidecarMMD {
		t.Fatalf("ParseSidecarType = (%q, %v)", s, ok)
	}
}
