// Package simulate generates realistic RHEL system directories for demos
// and tests, so the pipeline can run without SSH access to real hosts.
package simulate

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// SystemProfile describes one simulated host.
type SystemProfile struct {
	SystemID    string
	Environment string
	RHELVersion string
	Kernel      string
	Services    []string
	Datacenter  string
}

// defaultProfiles is the roster of enterprise-shaped systems the generator
// draws from, in order.
var defaultProfiles = []SystemProfile{
	{
		SystemID:    "web-prod-01",
		Environment: "production",
		RHELVersion: "9.2",
		Kernel:      "5.14.0-284.25.1.el9_2.x86_64",
		Services:    []string{"httpd", "mysql", "redis", "chronyd", "sshd"},
		Datacenter:  "DC-East-1",
	},
	{
		SystemID:    "web-prod-02",
		Environment: "production",
		RHELVersion: "9.1",
		Kernel:      "5.14.0-162.23.1.el9_1.x86_64",
		Services:    []string{"httpd", "postgresql", "nginx", "chronyd", "sshd"},
		Datacenter:  "DC-West-1",
	},
	{
		SystemID:    "app-prod-01",
		Environment: "production",
		RHELVersion: "9.2",
		Kernel:      "5.14.0-284.25.1.el9_2.x86_64",
		Services:    []string{"tomcat", "elasticsearch", "docker", "chronyd", "sshd"},
		Datacenter:  "DC-Central-1",
	},
	{
		SystemID:    "db-prod-01",
		Environment: "production",
		RHELVersion: "8.8",
		Kernel:      "4.18.0-477.27.1.el8_8.x86_64",
		Services:    []string{"mysql", "redis", "memcached", "chronyd", "sshd"},
		Datacenter:  "DC-East-1",
	},
	{
		SystemID:    "web-stage-01",
		Environment: "staging",
		RHELVersion: "9.2",
		Kernel:      "5.14.0-284.25.1.el9_2.x86_64",
		Services:    []string{"httpd", "mysql", "chronyd", "sshd"},
		Datacenter:  "DC-Central-1",
	},
}

// packageVersions maps common RHEL packages to realistic versions.
var packageVersions = map[string]string{
	"httpd":         "2.4.53-11.el9_2.5",
	"httpd-tools":   "2.4.53-11.el9_2.5",
	"mysql":         "8.0.32-1.el9_0",
	"postgresql":    "13.7-1.el9_0",
	"redis":         "6.2.7-1.el9",
	"nginx":         "1.20.1-13.el9",
	"tomcat":        "9.0.62-5.el9_0.1",
	"elasticsearch": "7.17.7-1",
	"docker":        "20.10.21-3.el9",
	"memcached":     "1.6.9-7.el9",
	"kernel":        "5.14.0-284.25.1.el9_2",
	"glibc":         "2.34-60.el9_2.7",
	"openssl":       "3.0.7-16.el9_2",
	"systemd":       "250-12.el9_2.6",
	"openssh":       "8.7p1-24.el9_2",
	"chrony":        "4.2-1.el9",
	"chronyd":       "4.2-1.el9",
	"sshd":          "8.7p1-24.el9_2",
}

// Generator writes simulated RHEL directory trees under a base path.
type Generator struct {
	basePath string
	rng      *rand.Rand
	now      time.Time
}

// NewGenerator creates a generator rooted at basePath. The seed makes
// output reproducible for demos; vary it for fresh values.
func NewGenerator(basePath string, seed int64) *Generator {
	return &Generator{
		basePath: basePath,
		rng:      rand.New(rand.NewSource(seed)),
		now:      time.Now(),
	}
}

// GenerateAllSystems creates n system directories, each with the full
// fixed file set: release banner, yum config, auth log, package manager
// log, system log, package list, and one systemd unit per service. When n
// exceeds the roster, extra systems are cloned with numbered identifiers.
func (g *Generator) GenerateAllSystems(n int) ([]string, error) {
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		profile := defaultProfiles[i%len(defaultProfiles)]
		if i >= len(defaultProfiles) {
			profile.SystemID = fmt.Sprintf("%s-%d", profile.SystemID, i/len(defaultProfiles)+1)
		}
		if err := g.GenerateSystem(profile); err != nil {
			return ids, err
		}
		ids = append(ids, profile.SystemID)
	}
	return ids, nil
}

// GenerateSystem writes the full file set for one system profile.
func (g *Generator) GenerateSystem(profile SystemProfile) error {
	root := filepath.Join(g.basePath, profile.SystemID)

	files := map[string]string{
		"etc/redhat-release":       g.redhatRelease(profile),
		"etc/yum.conf":             g.yumConf(profile),
		"var/log/secure":           g.secureLog(profile),
		"var/log/yum.log":          g.yumLog(profile),
		"var/log/messages":         g.messagesLog(profile),
		"var/lib/rpm/packages.txt": g.packageList(profile),
	}
	for _, service := range profile.Services {
		path := filepath.Join("usr/lib/systemd/system", service+".service")
		files[path] = g.serviceUnit(service)
	}

	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", rel, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", rel, err)
		}
	}
	return nil
}

func (g *Generator) redhatRelease(profile SystemProfile) string {
	codename := "Plow"
	if strings.HasPrefix(profile.RHELVersion, "8") {
		codename = "Ootpa"
	}
	return fmt.Sprintf("Red Hat Enterprise Linux release %s (%s)\n", profile.RHELVersion, codename)
}

func (g *Generator) yumConf(profile SystemProfile) string {
	return `[main]
gpgcheck=1
installonly_limit=3
clean_requirements_on_remove=True
best=True
skip_if_unavailable=False
keepcache=0
debuglevel=2
logfile=/var/log/yum.log
`
}

// secureLog produces an SSH authentication log with a mix of accepted and
// failed sessions.
func (g *Generator) secureLog(profile SystemProfile) string {
	users := []string{"admin", "deploy", "root", "ansible"}
	var lines []string

	for i := 0; i < 20; i++ {
		ts := g.pastTimestamp(7 * 24 * time.Hour)
		user := users[g.rng.Intn(len(users))]
		ip := g.randomIP()
		port := 40000 + g.rng.Intn(20000)
		pid := 1000 + g.rng.Intn(9000)

		if g.rng.Float64() < 0.2 {
			lines = append(lines, fmt.Sprintf(
				"%s %s sshd[%d]: Failed password for %s from %s port %d ssh2",
				ts.Format("Jan  2 15:04:05"), profile.SystemID, pid, user, ip, port))
		} else {
			lines = append(lines, fmt.Sprintf(
				"%s %s sshd[%d]: Accepted password for %s from %s port %d ssh2",
				ts.Format("Jan  2 15:04:05"), profile.SystemID, pid, user, ip, port))
			lines = append(lines, fmt.Sprintf(
				"%s %s sshd[%d]: pam_unix(sshd:session): session opened for user %s",
				ts.Format("Jan  2 15:04:05"), profile.SystemID, pid, user))
		}
	}

	sort.Sort(sort.Reverse(sort.StringSlice(lines)))
	return strings.Join(lines, "\n") + "\n"
}

// yumLog produces package install/update records.
func (g *Generator) yumLog(profile SystemProfile) string {
	var lines []string
	names := sortedPackageNames()

	for i := 0; i < 15; i++ {
		ts := g.pastTimestamp(60 * 24 * time.Hour)
		name := names[g.rng.Intn(len(names))]
		action := "Updated"
		if g.rng.Float64() < 0.3 {
			action = "Installed"
		}
		lines = append(lines, fmt.Sprintf("%s %s: %s-%s.x86_64",
			ts.Format("Jan 02 15:04:05"), action, name, packageVersions[name]))
	}

	sort.Sort(sort.Reverse(sort.StringSlice(lines)))
	return strings.Join(lines, "\n") + "\n"
}

func (g *Generator) messagesLog(profile SystemProfile) string {
	var lines []string
	for i := 0; i < 30; i++ {
		ts := g.pastTimestamp(30 * 24 * time.Hour)
		templates := []string{
			"%s %s systemd[1]: Started dnf automatic.",
			"%s %s kernel: SELinux: policy loaded",
			"%s %s systemd[1]: Reloading.",
			"%s %s yum[12345]: Updated: httpd-2.4.53-11.el9_2.5.x86_64",
		}
		tmpl := templates[g.rng.Intn(len(templates))]
		lines = append(lines, fmt.Sprintf(tmpl, ts.Format("Jan  2 15:04:05"), profile.SystemID))
	}

	sort.Sort(sort.Reverse(sort.StringSlice(lines)))
	return strings.Join(lines, "\n") + "\n"
}

// packageList produces the installed package roster: one line per package,
// services first, then a fixed base set.
func (g *Generator) packageList(profile SystemProfile) string {
	seen := map[string]bool{}
	var packages []string

	add := func(name string) {
		version, ok := packageVersions[name]
		if !ok || seen[name] {
			return
		}
		seen[name] = true
		packages = append(packages, name+"-"+version)
	}

	for _, service := range profile.Services {
		add(service)
	}
	for _, base := range []string{"kernel", "glibc", "openssl", "systemd", "openssh"} {
		add(base)
	}

	sort.Strings(packages)
	return strings.Join(packages, "\n") + "\n"
}

func (g *Generator) serviceUnit(service string) string {
	return fmt.Sprintf(`[Unit]
Description=%s Service
After=network.target
Wants=network.target

[Service]
Type=forking
ExecStart=/usr/sbin/%s
ExecReload=/bin/kill -HUP $MAINPID
PIDFile=/var/run/%s.pid
Restart=always

[Install]
WantedBy=multi-user.target
`, strings.ToUpper(service), service, service)
}

func (g *Generator) pastTimestamp(window time.Duration) time.Time {
	offset := time.Duration(g.rng.Int63n(int64(window)))
	return g.now.Add(-offset)
}

func (g *Generator) randomIP() string {
	return fmt.Sprintf("10.%d.%d.%d", g.rng.Intn(256), g.rng.Intn(256), 1+g.rng.Intn(254))
}

func sortedPackageNames() []string {
	names := make([]string, 0, len(packageVersions))
	for name := range packageVersions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
