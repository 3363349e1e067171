package query_test

import (
	"testing"

	"github.com/okian/evalhub/internal/domain/model"
	"github.com/okian/evalhub/internal/domain/query"
	. "github.com/smartystreets/goconvey/convey"
)

func fixture() []model.BenchmarkRecord {
	return []model.BenchmarkRecord{
		{ID: "mmlu_math", Title: "mmlu_math", Group: "Mathematics", Tasks: []model.TaskRecord{{Name: "arith"}}},
		{ID: "humaneval", Title: "HumanEval", Group: "Coding", Description: "Python function synthesis", Contributors: []string{"Adam"}},
		{ID: "gsm8k", Title: "GSM8K", Group: "Mathematics", Tags: []string{"Grade-School"}},
		{ID: "cybench", Title: "Cybench", Group: "Cybersecurity", Tasks: []model.TaskRecord{{Name: "ctf_Crypto"}}},
		{ID: "swe_bench", Title: "SWE-bench", Group: "Coding", Contributors: []string{"Max Kaufmann"}},
		{ID: "ecole_fr", Title: "École", Group: "Knowledge"},
	}
}

func ids(records []model.BenchmarkRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestFilterByGroup(t *testing.T) {
	Convey("Given a dataset spanning several groups", t, func() {
		records := fixture()

		Convey("When filtering by an exact group with empty text", func() {
			got := query.Filter(records, query.Params{Group: "Mathematics"})

			Convey("Then only that group should remain, in order", func() {
				So(ids(got), ShouldResemble, []string{"mmlu_math", "gsm8k"})
			})
		})

		Convey("When the group differs in case", func() {
			got := query.Filter(records, query.Params{Group: "mathematics"})

			Convey("Then nothing should match", func() {
				So(got, ShouldBeEmpty)
			})
		})

		Convey("When the group is the All sentinel or empty", func() {
			Convey("Then every record should be returned", func() {
				So(ids(query.Filter(records, query.Params{Group: query.AllGroups})), ShouldResemble, ids(records))
				So(ids(query.Filter(records, query.Params{})), ShouldResemble, ids(records))
			})
		})
	})
}

func TestFilterByText(t *testing.T) {
	Convey("Given a dataset", t, func() {
		records := fixture()

		Convey("When searching by id substring", func() {
			got := query.Filter(records, query.Params{Group: query.AllGroups, Text: "math"})
			So(ids(got), ShouldResemble, []string{"mmlu_math"})
		})

		Convey("When searching case-insensitively by title", func() {
			So(ids(query.Filter(records, query.Params{Text: "HUMANEVAL"})), ShouldResemble, []string{"humaneval"})
		})

		Convey("When searching by description", func() {
			So(ids(query.Filter(records, query.Params{Text: "synthesis"})), ShouldResemble, []string{"humaneval"})
		})

		Convey("When searching by contributor", func() {
			So(ids(query.Filter(records, query.Params{Text: "kaufmann"})), ShouldResemble, []string{"swe_bench"})
		})

		Convey("When searching by tag", func() {
			So(ids(query.Filter(records, query.Params{Text: "grade-school"})), ShouldResemble, []string{"gsm8k"})
		})

		Convey("When searching by task name", func() {
			So(ids(query.Filter(records, query.Params{Text: "crypto"})), ShouldResemble, []string{"cybench"})
		})

		Convey("When searching with Unicode case folding", func() {
			So(ids(query.Filter(records, query.Params{Text: "ÉCOLE"})), ShouldResemble, []string{"ecole_fr"})
		})

		Convey("When the text matches no field", func() {
			So(query.Filter(records, query.Params{Text: "zzz-nothing"}), ShouldBeEmpty)
		})

		Convey("When the text is only whitespace", func() {
			So(ids(query.Filter(records, query.Params{Text: "   \t"})), ShouldResemble, ids(records))
		})

		Convey("When surrounding whitespace is present", func() {
			So(ids(query.Filter(records, query.Params{Text: "  gsm  "})), ShouldResemble, []string{"gsm8k"})
		})
	})
}

func TestFilterComposition(t *testing.T) {
	Convey("Given group and text filters together", t, func() {
		records := fixture()
		p := query.Params{Group: "Coding", Text: "a"}

		Convey("When filtering", func() {
			got := query.Filter(records, p)

			Convey("Then both filters should apply", func() {
				So(ids(got), ShouldResemble, []string{"humaneval", "swe_bench"})
			})

			Convey("And filtering again should be idempotent", func() {
				So(ids(query.Filter(got, p)), ShouldResemble, ids(got))
			})
		})

		Convey("When the text only matches records outside the group", func() {
			So(query.Filter(records, query.Params{Group: "Coding", Text: "gsm"}), ShouldBeEmpty)
		})
	})
}

func TestParams(t *testing.T) {
	Convey("Given params", t, func() {
		So(query.Params{}.IsZero(), ShouldBeTrue)
		So(query.Params{Group: query.AllGroups, Text: "  "}.IsZero(), ShouldBeTrue)
		So(query.Params{Group: "Coding"}.IsZero(), ShouldBeFalse)
		So(query.Params{Text: " x "}.Normalize().Text, ShouldEqual, "x")
	})
}

func TestSectionsAndGroups(t *testing.T) {
	Convey("Given a filtered result", t, func() {
		records := fixture()

		Convey("When partitioning into sections", func() {
			sections := query.Sections(query.Filter(records, query.Params{Text: "a"}))

			Convey("Then group keys should be sorted and in-group order kept", func() {
				groups := make([]string, len(sections))
				for i, s := range sections {
					groups[i] = s.Group
				}
				So(groups, ShouldResemble, []string{"Coding", "Mathematics"})
				So(ids(sections[0].Records), ShouldResemble, []string{"humaneval", "swe_bench"})
				So(ids(sections[1].Records), ShouldResemble, []string{"mmlu_math", "gsm8k"})
			})
		})

		Convey("When listing distinct groups of the full dataset", func() {
			Convey("Then they should be sorted and unique", func() {
				So(query.Groups(records), ShouldResemble, []string{"Coding", "Cybersecurity", "Knowledge", "Mathematics"})
			})
		})

		Convey("When the dataset is empty", func() {
			So(query.Groups(nil), ShouldBeEmpty)
			So(query.Sections(nil), ShouldBeEmpty)
		})
	})
}
