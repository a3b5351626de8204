package seed

import (
	"context"
	"rmatrack/config"
	returnsController "rmatrack/internal/controllers/returns"
	"rmatrack/internal/logger"
	"rmatrack/internal/repositories"
	"strings"
)

const seedFilename = "seed.csv"

// sampleSheet mirrors the column layout of the form export.
const sampleSheet = `RMA ID,Name on the invoice,Contact Number,Attach your invoice,Product Name (as per invoice),Issue you're facing,Full Address for Return Pick Up,Date of Purchase,Purchased From,Tracking Number,RMA Status
RMA/0032,Asha Rao,9876500001,INV-1001,Kreo Hive,Left click double clicks,"12 MG Road, Bengaluru",2024-03-01,Amazon,,
,Ravi Kumar,9876500002,INV-1002,Kreo Chimera,Cable frayed near the jack,"4 Park Street, Kolkata",2024-03-05,Flipkart,AWB 8841 RMA/0077,testing
,Meera Shah,9876500003,INV-1003,Kreo Swarm,RGB lighting dead,"9 Linking Road, Mumbai",2024-02-20,kreo-tech.com,,Replace
,Kabir Singh,9876500004,INV-1004,Kreo Pegasus,Shell cracked in transit,"22 Sector 17, Chandigarh",2024-02-11,Amazon,,Physical damage
`

// Seed imports a small sample batch when no cases are stored yet.
func Seed(
	ctx context.Context,
	caseRepo repositories.ReturnCaseRepository,
	controller *returnsController.ReturnsController,
	config config.Config,
	log logger.Logger,
) error {
	log = log.Function("seed")
	log.Info("Seeding development data", "environment", config.Environment)

	if config.IsProduction() {
		log.Warn("Refusing to seed a production database")
		return nil
	}

	count, err := caseRepo.Count(ctx)
	if err != nil {
		return log.Err("failed to count existing cases", err)
	}
	if count > 0 {
		log.Info("Cases already exist, skipping seed", "count", count)
		return nil
	}

	stats, err := controller.ImportSheet(ctx, seedFilename, strings.NewReader(sampleSheet))
	if err != nil {
		return log.Err("failed to import seed sheet", err)
	}

	log.Info("Seeded cases", "count", stats.CasesProduced)
	return nil
}
