// Package catalog owns the pair catalog: the built-in seed entries and the
// drop-directory watcher that upserts JSON pair files at runtime.
package catalog

import (
	"context"
	"fmt"

	"BassTab/logger"
	"BassTab/model"
	"BassTab/repository"
)

// SeedPairs returns the built-in catalog, keyed by slug.
func SeedPairs() map[string]*model.PagePayload {
	return map[string]*model.PagePayload{
		"notorious-big-juicy": {
			Track: model.Track{
				Title: "Juicy", Artist: "The Notorious B.I.G.", Year: 1994,
				YoutubeID: "_JZom_gVfuw", SpotifyID: "5ByAIlEEnxYdvpnezg7HTX",
			},
			Original: model.Track{
				Title: "Juicy Fruit", Artist: "Mtume", Year: 1983,
				YoutubeID: "vG0ZvhD6YKI", SpotifyID: "4xdBrk0nCOAhFDEQ21T0W1",
			},
			SampleMap: model.SampleMap{
				IsBassSample: true, SampleType: model.SampleDirect,
				TrackStartSec: 12.0, OriginalStartSec: 0.0,
				Notes: "Classic direct bass line loop from Mtume's original",
			},
			Tab: model.Tab{
				Tuning: model.TuningEADG, Difficulty: 2,
				TabText: "G|----------------|----------------|\n" +
					"D|----------------|----------------|\n" +
					"A|--5-5--3-3--1-1-|--0----1--3-----|\n" +
					"E|----------------|----------------|",
				Bars: []model.BarMarker{
					{Bar: 1, StartSec: 0.0},
					{Bar: 2, StartSec: 4.1},
				},
			},
		},
		"dr-dre-nuthin-but-g-thang": {
			Track: model.Track{
				Title: "Nuthin' But a 'G' Thang", Artist: "Dr. Dre ft. Snoop Dogg", Year: 1992,
				YoutubeID: "QZXc39hT8t4", SpotifyID: "6Lt7CjLG67MShj6ht5s1ZX",
			},
			Original: model.Track{
				Title: "I Want'a Do Something Freaky to You", Artist: "Leon Haywood", Year: 1975,
				YoutubeID: "37VTcnKrFNI",
			},
			SampleMap: model.SampleMap{
				IsBassSample: true, SampleType: model.SampleInterpolation,
				TrackStartSec: 8.5, OriginalStartSec: 15.2,
				Notes: "Bass line interpolated and filtered from Leon Haywood original",
			},
			Tab: model.Tab{
				Tuning: model.TuningEADG, Difficulty: 3,
				TabText: "G|----------------------|----------------------|\n" +
					"D|----------------------|----------------------|\n" +
					"A|--7-7-5-5--3-3-1-1----|--5-5-3-3--1-1--------|\n" +
					"E|--------------------3-|----------------3--1--|",
				Bars: []model.BarMarker{
					{Bar: 1, StartSec: 15.2},
					{Bar: 2, StartSec: 19.3},
				},
			},
		},
		"public-enemy-fight-the-power": {
			Track: model.Track{
				Title: "Fight the Power", Artist: "Public Enemy", Year: 1989,
				YoutubeID: "mmo3HFa2vjg", SpotifyID: "3RzqE5PPM9CfpYMp3A4ICF",
			},
			Original: model.Track{
				Title: "Funky Drummer", Artist: "James Brown", Year: 1970,
				YoutubeID: "dNP8tbDMZNE",
			},
			SampleMap: model.SampleMap{
				IsBassSample: true, SampleType: model.SampleReplay,
				TrackStartSec: 45.0, OriginalStartSec: 120.5,
				Notes: "Re-recorded bass line inspired by James Brown's original",
			},
			Tab: model.Tab{
				Tuning: model.TuningEADG, Difficulty: 4,
				TabText: "# Main Verse:\n" +
					"G|————————————————————————————————|\n" +
					"D|———————14—12—14————————16—17—18—|\n" +
					"A|————————————————————————————————|\n" +
					"E|—12——————————————12—————————————|\n" +
					"\n" +
					"# Bridge/Break:\n" +
					"G|————————————————————————————————|\n" +
					"D|————14————13————12————11————————|\n" +
					"A|————————————————————————————————|\n" +
					"E|—12————11————10—————9———————————|",
				Bars: []model.BarMarker{
					{Bar: 1, StartSec: 120.5},
					{Bar: 2, StartSec: 124.7},
					{Bar: 3, StartSec: 128.9},
					{Bar: 4, StartSec: 133.1},
				},
			},
		},
		"sugarhill-gang-rappers-delight": {
			Track: model.Track{
				Title: "Rapper's Delight", Artist: "The Sugarhill Gang", Year: 1979,
				YoutubeID: "rKTUAESacQM", SpotifyID: "3Yk0ST4UVPGj7CEOoHCF15",
			},
			Original: model.Track{
				Title: "Good Times", Artist: "Chic", Year: 1979,
				YoutubeID: "B4c_SkROzzo", SpotifyID: "2dLLR6qNWfIdaho6ueuC4J",
			},
			SampleMap: model.SampleMap{
				IsBassSample: true, SampleType: model.SampleDirect,
				TrackStartSec: 12.0, OriginalStartSec: 0.0,
				Notes: "First mainstream hip-hop hit using Bernard Edwards' iconic bass line",
			},
			Tab: model.Tab{
				Tuning: model.TuningEADG, Difficulty: 2,
				TabText: "G|————————————————————————————————|\n" +
					"D|————————————————————————————————|\n" +
					"A|—7——————————————5—6—7——————————|\n" +
					"E|——————0—3—5—7————————————5—3—0—|",
				Bars: []model.BarMarker{
					{Bar: 1, StartSec: 0.0},
					{Bar: 2, StartSec: 4.1},
				},
			},
		},
		"2pac-california-love": {
			Track: model.Track{
				Title: "California Love", Artist: "2Pac", Year: 1995,
				YoutubeID: "5wBTdfAkqGU", SpotifyID: "2pacCaliforniaLoveAbcd",
			},
			Original: model.Track{
				Title: "Dance Floor", Artist: "Zapp", Year: 1982,
				YoutubeID: "kYPo3HCkYd8", SpotifyID: "zappDanceFloorAbcdefgh",
			},
			SampleMap: model.SampleMap{
				IsBassSample: true, SampleType: model.SampleDirect,
				TrackStartSec: 12.0, OriginalStartSec: 25.0,
				Notes: "Roger Troutman's talk box and Zapp's signature bass funk",
			},
			Tab: model.Tab{
				Tuning: model.TuningEADG, Difficulty: 3,
				TabText: "# Zapp's signature talk-box funk bass:\n" +
					"G|————————————————————————————————|\n" +
					"D|————————————————————————————————|\n" +
					"A|——————————————————————7—5—3—————|\n" +
					"E|—5—5—5—5—5—5—5—5—5—5—————————5—3—|",
				Bars: []model.BarMarker{
					{Bar: 1, StartSec: 25.0},
					{Bar: 2, StartSec: 29.0},
				},
			},
		},
		"2pac-i-get-around": {
			Track: model.Track{
				Title: "I Get Around", Artist: "2Pac", Year: 1993,
				YoutubeID: "YqJAnQTwmJs", SpotifyID: "2pacIGetAroundAbcdefgh",
			},
			Original: model.Track{
				Title: "Computer Love", Artist: "Zapp & Roger", Year: 1985,
				YoutubeID: "iqAj3UfEqpA", SpotifyID: "zappComputerLoveAbcdef",
			},
			SampleMap: model.SampleMap{
				IsBassSample: true, SampleType: model.SampleDirect,
				TrackStartSec: 5.0, OriginalStartSec: 30.0,
				Notes: "Zapp's robotic funk bass drives the digital soul movement",
			},
			Tab: model.Tab{
				Tuning: model.TuningEADG, Difficulty: 4,
				TabText: "# Digital funk bass with synth bass elements:\n" +
					"G|————————————————————————————————|\n" +
					"D|————————————————————————————————|\n" +
					"A|—————————————————————————5—7—5—3|\n" +
					"E|—3—3—0—3—3—0—3—3—0—3—3—0—————————|",
				Bars: []model.BarMarker{
					{Bar: 1, StartSec: 30.0},
					{Bar: 2, StartSec: 32.5},
				},
			},
		},
		"wu-tang-clan-cream": {
			Track: model.Track{
				Title: "C.R.E.A.M.", Artist: "Wu-Tang Clan", Year: 1993,
				YoutubeID: "PBwAxmrE194", SpotifyID: "wuTangCreamAbcdefghijk",
			},
			Original: model.Track{
				Title: "As Long As I've Got You", Artist: "The Charmels", Year: 1967,
				YoutubeID: "74X5GEF8qzM", SpotifyID: "charmelsAsLongAbcdefgh",
			},
			SampleMap: model.SampleMap{
				IsBassSample: true, SampleType: model.SampleDirect,
				TrackStartSec: 8.0, OriginalStartSec: 15.0,
				Notes: "Classic soul bass line from The Charmels' deep cut",
			},
			Tab: model.Tab{
				Tuning: model.TuningEADG, Difficulty: 2,
				TabText: "# Classic 60s soul bass groove:\n" +
					"G|————————————————————————————————|\n" +
					"D|————————————————————————————————|\n" +
					"A|————————————————————————————————|\n" +
					"E|—3————————3————————3————————3————|",
				Bars: []model.BarMarker{
					{Bar: 1, StartSec: 15.0},
					{Bar: 2, StartSec: 19.0},
				},
			},
		},
		"wu-tang-clan-protect-ya-neck": {
			Track: model.Track{
				Title: "Protect Ya Neck", Artist: "Wu-Tang Clan", Year: 1992,
				YoutubeID: "R0IUR4gkPIE", SpotifyID: "wuTangProtectAbcdefghi",
			},
			Original: model.Track{
				Title: "Holy Thursday", Artist: "David Axelrod", Year: 1968,
				YoutubeID: "bGAB11ZiPew", SpotifyID: "axelrodHolyThursdayAbc",
			},
			SampleMap: model.SampleMap{
				IsBassSample: true, SampleType: model.SampleInterpolation,
				TrackStartSec: 0.0, OriginalStartSec: 45.0,
				Notes: "Psychedelic orchestral bass transformed into raw hip-hop",
			},
			Tab: model.Tab{
				Tuning: model.TuningEADG, Difficulty: 3,
				TabText: "# Orchestral bass with psychedelic edge:\n" +
					"G|————————————————————————————————|\n" +
					"D|————————————————————————————————|\n" +
					"A|————————————————3—5—3—1—————————|\n" +
					"E|—1————————1——————————————1—3—1—0|",
				Bars: []model.BarMarker{
					{Bar: 1, StartSec: 45.0},
					{Bar: 2, StartSec: 51.0},
				},
			},
		},
	}
}

// Seed validates every built-in pair and upserts it into the store.
func Seed(ctx context.Context, repo repository.PairRepository) error {
	for slug, payload := range SeedPairs() {
		if err := payload.Validate(); err != nil {
			return fmt.Errorf("seed pair %q: %w", slug, err)
		}
		existed, err := repo.ExistsBySlug(ctx, slug)
		if err != nil {
			return fmt.Errorf("seed pair %q: %w", slug, err)
		}
		if err := repo.Upsert(ctx, model.PairFromPayload(slug, payload)); err != nil {
			return fmt.Errorf("seed pair %q: %w", slug, err)
		}
		if existed {
			logger.Info("seed pair updated", logger.String("slug", slug))
		} else {
			logger.Info("seed pair created", logger.String("slug", slug))
		}
	}
	return nil
}
