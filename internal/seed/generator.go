package seed

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/google/uuid"

	"github.com/okian/jobscope/internal/domain/model"
	"github.com/okian/jobscope/pkg/logger"
)

// Constants for listing shape probabilities.
const (
	remoteRate           = 0.1
	missingSkillsRate    = 0.05
	missingDescRate      = 0.05
	maxSkillsPerListing  = 4
	maxRelativeMagnitude = 30
)

var (
	titles = []string{ //nolint:gochecknoglobals // generator vocabulary
		"Go Developer", "Senior Software Engineer", "Data Engineer", "DevOps Engineer",
		"Java Developer", "Frontend Engineer", "Site Reliability Engineer", "QA Analyst",
		"Business Analyst", "Machine Learning Engineer", "Database Administrator", "Network Engineer",
	}
	companies = []string{ //nolint:gochecknoglobals // generator vocabulary
		"Acme Corp", "Globex", "Initech", "Umbrella Systems", "Stark Industries",
		"Wayne Enterprises", "Hooli", "Vandelay Industries",
	}
	locations = []string{ //nolint:gochecknoglobals // generator vocabulary
		"Austin, TX", "New York, NY", "San Francisco, CA", "Boston, MA", "Chicago, IL",
		"Seattle, WA", "Denver, CO", "Atlanta, GA", "Dallas, TX 75201", "Raleigh, NC",
	}
	skills = []string{ //nolint:gochecknoglobals // generator vocabulary
		"Go", "SQL", "Python", "Java", "JavaScript", "Kubernetes", "AWS", "Docker",
		"Linux", "React", "Terraform", "PostgreSQL", "Kafka", "Spark", "C++",
	}
	employmentTypes = []string{ //nolint:gochecknoglobals // generator vocabulary
		"Full Time", "Contract", "Contract to Hire", "Full Time, Contract", "Part Time",
		"Contract W2", "Subcontract", "C2H Corp-To-Corp",
	}
	openers = []string{ //nolint:gochecknoglobals // generator vocabulary
		"Join a %s team", "We offer a %s environment", "This is a %s opportunity",
		"Work on %s products", "Our clients need a %s engineer",
	}
	adjectives = []string{ //nolint:gochecknoglobals // generator vocabulary
		"great", "excellent", "friendly", "innovative", "fast-paced", "competitive",
		"stable", "boring", "stressful", "difficult", "flexible", "dynamic",
	}
	units = []string{"hour", "minute", "day", "week", "month"}           //nolint:gochecknoglobals // generator vocabulary
	vague = []string{"Posted recently", "yesterday", "", "a few days ago"} //nolint:gochecknoglobals // generator vocabulary
)

// Generate creates cfg.Count raw listings. Output depends only on cfg.Seed,
// cfg.Count and cfg.MalformedRate.
func Generate(ctx context.Context, cfg *Config, stats *Stats) ([]model.RawListing, error) {
	logger.Get().Info(ctx, "generating listings",
		logger.Int("count", cfg.Count),
		logger.Any("seed", cfg.Seed),
	)

	rng := rand.New(rand.NewSource(cfg.Seed)) //nolint:gosec // reproducible datasets, not security
	out := make([]model.RawListing, cfg.Count)
	for i := range out {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("context cancelled during generation: %w", err)
		}
		malformed := rng.Float64() < cfg.MalformedRate
		out[i] = generateListing(rng, cfg.Seed, i, malformed)
		if malformed {
			stats.Malformed++
		}
	}

	stats.Generated = len(out)
	logger.Get().Info(ctx, "generated listings",
		logger.Int("count", stats.Generated),
		logger.Int("malformed", stats.Malformed),
	)
	return out, nil
}

// generateListing builds listing i. The job id is a name-based UUID so equal
// seeds give equal ids.
func generateListing(rng *rand.Rand, seed int64, i int, malformed bool) model.RawListing {
	raw := model.RawListing{
		JobID:          uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("jobscope-seed-%d-%d", seed, i))).String(),
		Title:          pick(rng, titles),
		Company:        pick(rng, companies),
		EmploymentType: pick(rng, employmentTypes),
	}

	raw.LocationAddress = pick(rng, locations)
	if rng.Float64() < remoteRate {
		raw.LocationAddress = "Remote"
	}
	if rng.Float64() >= missingSkillsRate {
		raw.Skills = generateSkills(rng)
	}
	if rng.Float64() >= missingDescRate {
		raw.Description = generateDescription(rng, raw.Title)
	}

	if malformed {
		raw.PostedAt = pick(rng, vague)
	} else {
		raw.PostedAt = relative(rng.Intn(maxRelativeMagnitude)+1, pick(rng, units))
	}
	return raw
}

func generateSkills(rng *rand.Rand) string {
	n := rng.Intn(maxSkillsPerListing) + 1
	perm := rng.Perm(len(skills))[:n]
	out := make([]string, n)
	for i, p := range perm {
		out[i] = skills[p]
	}
	return strings.Join(out, ", ")
}

func generateDescription(rng *rand.Rand, title string) string {
	sentence := fmt.Sprintf(pick(rng, openers), pick(rng, adjectives))
	return fmt.Sprintf("%s as a %s. The role is %s.", sentence, title, pick(rng, adjectives))
}

// relative formats n units the way job boards do, e.g. "1 day ago", "3 weeks ago".
func relative(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s ago", n, unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

func pick(rng *rand.Rand, from []string) string {
	return from[rng.Intn(len(from))]
}
