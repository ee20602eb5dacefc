package zone

import (
	"bufio"
	"fmt"
	"io"
	"net/netip"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/net/idna"
)

const recordFields = 2

// LoadRecords reads the record file
func LoadRecords(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("can't open record file: %w", err)
	}
	defer f.Close()

	return ReadRecords(f)
}

// ReadRecords parses "domain,ip" lines. Reading stops at the first line without exactly two fields,
// an empty line included. Domains are normalized to lower case ASCII, addresses must be IPv4.
// All invalid entries are reported.
func ReadRecords(r io.Reader) ([]Record, error) {
	scanner := bufio.NewScanner(r)

	var (
		records []Record
		errs    *multierror.Error
		line    int
	)

	for scanner.Scan() {
		line++

		fields := splitFields(strings.TrimRight(scanner.Text(), "\r"))
		if len(fields) != recordFields {
			break
		}

		record, err := parseRecord(fields[0], fields[1])
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("line %d: %w", line, err))

			continue
		}

		records = append(records, record)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("can't read records: %w", err)
	}

	return records, errs.ErrorOrNil()
}

// splitFields splits at the field separator and drops trailing empty fields
func splitFields(line string) []string {
	fields := strings.Split(line, FieldSeparator)

	for len(fields) > 0 && fields[len(fields)-1] == "" {
		fields = fields[:len(fields)-1]
	}

	return fields
}

func parseRecord(domain, ip string) (Record, error) {
	normalized, err := idna.Lookup.ToASCII(strings.TrimSpace(domain))
	if err != nil {
		return Record{}, fmt.Errorf("invalid domain '%s': %w", domain, err)
	}

	normalized = strings.ToLower(normalized)

	if err := CheckDomain(normalized); err != nil {
		return Record{}, fmt.Errorf("invalid domain '%s': %w", domain, err)
	}

	addr, err := netip.ParseAddr(strings.TrimSpace(ip))
	if err != nil {
		return Record{}, fmt.Errorf("invalid address of '%s': %w", normalized, err)
	}

	if !addr.Is4() {
		return Record{}, fmt.Errorf("address '%s' of '%s' is not IPv4", ip, normalized)
	}

	return Record{Domain: normalized, IP: addr.String()}, nil
}
